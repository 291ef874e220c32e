package cgv

// Movie is one entry of a theater's showtime page.
type Movie struct {
	Title string `json:"movie_title"`
	Halls []Hall `json:"hall_list"`
}

// Hall is one auditorium showing a movie, together with the slots it
// shows it in.
type Hall struct {
	Type       string     `json:"hall_type"`
	Name       string     `json:"hall_name"`
	TotalSeats string     `json:"hall_total_seat"`
	Timetable  []Showtime `json:"timetable"`
}

type Showtime struct {
	// HH:MM
	Time           string `json:"time"`
	RemainingSeats string `json:"remaining_seats"`
	// nil when the slot is sold out
	BookingLink *string `json:"booking_link"`
}

func (s Showtime) SoldOut() bool {
	return s.BookingLink == nil
}
