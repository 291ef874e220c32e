package cgv

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"cgv-showtimes/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/PuerkitoBio/purell"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const DefaultLinkBase = "https://www.cgv.co.kr"

const (
	movieSelector     = "body > div > div.sect-showtimes > ul > li"
	titleSelector     = "div.info-movie > a > strong"
	hallSelector      = "div.type-hall > div.info-hall > ul"
	timetableSelector = "div.type-hall > div.info-timetable > ul"

	remainingSeatsLabel = "잔여좌석"
	totalSeatsMarker    = "총"
	timeLength          = 5
)

var hallFields = [3]string{"hall_type", "hall_name", "hall_total_seat"}

// ExtractionError is returned when a required element is missing from a
// showtime page.
type ExtractionError struct {
	// index of the movie on the page
	Movie int
	// index of the hall within the movie, -1 for movie level fields
	Hall  int
	Field string
}

func (e *ExtractionError) Error() string {
	if e.Hall < 0 {
		return fmt.Sprintf("movie #%d: missing %s", e.Movie, e.Field)
	}
	return fmt.Sprintf("movie #%d, hall #%d: missing %s", e.Movie, e.Hall, e.Field)
}

// StructureMismatchError is returned when a movie does not have exactly
// one timetable group per hall group, which means the page layout has
// changed.
type StructureMismatchError struct {
	Movie      int
	Title      string
	Halls      int
	Timetables int
}

func (e *StructureMismatchError) Error() string {
	return fmt.Sprintf(
		"movie #%d (%s): %d hall groups but %d timetable groups",
		e.Movie, e.Title, e.Halls, e.Timetables,
	)
}

// CleanText strips newlines, doubled spaces, carriage returns and the
// total seat marker, in that order. single spaces and tabs are kept.
func CleanText(text string) string {
	text = strings.ReplaceAll(text, "\n", "")
	text = strings.ReplaceAll(text, "  ", "")
	text = strings.ReplaceAll(text, "\r", "")
	text = strings.ReplaceAll(text, totalSeatsMarker, "")
	return text
}

// Extractor turns showtime pages into movie records. it holds no state
// between calls.
type Extractor struct {
	// prefixed to the root relative booking hrefs
	LinkBase string
}

func NewExtractor(linkBase string) Extractor {
	if linkBase == "" {
		linkBase = DefaultLinkBase
	}
	return Extractor{LinkBase: linkBase}
}

// ParseMovies parses raw markup and extracts it.
func (e Extractor) ParseMovies(ctx context.Context, markup string) ([]Movie, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, err
	}
	return e.Extract(ctx, doc)
}

// Extract returns the movies of a showtime page in document order. any
// error discards the whole page.
func (e Extractor) Extract(ctx context.Context, doc *goquery.Document) ([]Movie, error) {
	ctx, span := tracer.Start(ctx, "extractor:Extract")
	defer span.End()

	nodes := doc.Find(movieSelector)
	movies := make([]Movie, 0, nodes.Length())
	soldOut := 0

	for i := range nodes.Nodes {
		movie, err := e.extractMovie(i, nodes.Eq(i))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to extract movie")
			return nil, err
		}
		for _, hall := range movie.Halls {
			for _, slot := range hall.Timetable {
				if slot.SoldOut() {
					soldOut++
				}
			}
		}
		movies = append(movies, movie)
	}

	span.SetAttributes(
		attribute.Int("movies", len(movies)),
		attribute.Int("sold_out", soldOut),
	)
	moviesCounter.Add(ctx, int64(len(movies)))
	soldOutCounter.Add(ctx, int64(soldOut))
	slog.DebugContext(ctx, "extracted showtimes", "movies", len(movies), "sold_out", soldOut)

	return movies, nil
}

func (e Extractor) extractMovie(idx int, node *goquery.Selection) (Movie, error) {
	titleNode := node.Find(titleSelector)
	if titleNode.Length() == 0 {
		return Movie{}, &ExtractionError{Movie: idx, Hall: -1, Field: "movie_title"}
	}
	title := strings.TrimSpace(htmlutil.SelectionText(titleNode))

	hallGroups := node.Find(hallSelector)
	timetableGroups := node.Find(timetableSelector)
	if hallGroups.Length() != timetableGroups.Length() {
		return Movie{}, &StructureMismatchError{
			Movie:      idx,
			Title:      title,
			Halls:      hallGroups.Length(),
			Timetables: timetableGroups.Length(),
		}
	}

	halls := make([]Hall, hallGroups.Length())
	for i := range halls {
		hall, err := e.newHall(idx, i, hallGroups.Eq(i), timetableGroups.Eq(i))
		if err != nil {
			return Movie{}, err
		}
		halls[i] = hall
	}

	return Movie{Title: title, Halls: halls}, nil
}

// newHall builds a hall from its info group and the timetable group at
// the same position.
func (e Extractor) newHall(movieIdx, hallIdx int, info, timetable *goquery.Selection) (Hall, error) {
	items := info.Find("li")
	var fields [len(hallFields)]string
	for i, name := range hallFields {
		if i >= items.Length() {
			return Hall{}, &ExtractionError{Movie: movieIdx, Hall: hallIdx, Field: name}
		}
		fields[i] = CleanText(htmlutil.SelectionText(items.Eq(i)))
	}

	return Hall{
		Type:       fields[0],
		Name:       fields[1],
		TotalSeats: fields[2],
		Timetable:  e.extractTimetable(timetable),
	}, nil
}

func (e Extractor) extractTimetable(group *goquery.Selection) []Showtime {
	slots := group.Find("li")
	timetable := make([]Showtime, 0, slots.Length())
	slots.Each(func(_ int, slot *goquery.Selection) {
		timetable = append(timetable, e.extractShowtime(slot))
	})
	return timetable
}

func (e Extractor) extractShowtime(slot *goquery.Selection) Showtime {
	text := strings.ReplaceAll(htmlutil.SelectionText(slot), remainingSeatsLabel, "")
	runes := []rune(text)

	showtime := Showtime{Time: text}
	if len(runes) > timeLength {
		showtime.Time = string(runes[:timeLength])
		showtime.RemainingSeats = string(runes[timeLength:])
	}

	href, ok := htmlutil.FirstAttr(slot, "a", "href")
	if ok {
		link := e.bookingLink(href)
		showtime.BookingLink = &link
	}
	return showtime
}

func (e Extractor) bookingLink(href string) string {
	raw := e.LinkBase + href
	normalized, err := purell.NormalizeURLString(raw, purell.FlagsSafe)
	if err != nil {
		return raw
	}
	return normalized
}
