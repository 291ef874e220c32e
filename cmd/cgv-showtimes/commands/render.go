package commands

import (
	"encoding/json"
	"io"

	"cgv-showtimes/lib/scrapers/cgv"

	"github.com/jedib0t/go-pretty/v6/table"
)

const soldOutLabel = "매진"

func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(out)
	return t
}

func renderJson(out io.Writer, movies []cgv.Movie) error {
	if movies == nil {
		movies = []cgv.Movie{}
	}
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(movies)
}

// one row per showtime, movie and hall cells are merged vertically.
func renderTable(out io.Writer, movies []cgv.Movie) {
	t := newTable(out)
	t.AppendHeader(table.Row{"Movie", "Type", "Hall", "Seats", "Time", "Remaining", "Booking"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, AutoMerge: true},
		{Number: 2, AutoMerge: true},
		{Number: 3, AutoMerge: true},
		{Number: 4, AutoMerge: true},
	})

	for _, movie := range movies {
		for _, hall := range movie.Halls {
			if len(hall.Timetable) == 0 {
				t.AppendRow(table.Row{movie.Title, hall.Type, hall.Name, hall.TotalSeats, "", "", ""})
				continue
			}
			for _, slot := range hall.Timetable {
				booking := soldOutLabel
				if slot.BookingLink != nil {
					booking = *slot.BookingLink
				}
				t.AppendRow(table.Row{movie.Title, hall.Type, hall.Name, hall.TotalSeats, slot.Time, slot.RemainingSeats, booking})
			}
		}
	}
	t.Render()
}
