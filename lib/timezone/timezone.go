package timezone

import (
	"time"
	_ "time/tzdata"
)

// DateLayout is the YYYYMMDD layout used by the showtimes endpoint.
const DateLayout = "20060102"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Asia/Seoul")
	if err != nil {
		panic(err)
	}
}

// theaters run on korean time, "today" must not depend on where the
// binary happens to be running.
func Now() time.Time {
	return time.Now().In(Location)
}

// Today returns the current date in the YYYYMMDD form.
func Today() string {
	return FormatDate(Now())
}

func FormatDate(t time.Time) string {
	return t.In(Location).Format(DateLayout)
}

// ParseDate parses a YYYYMMDD string as midnight in Location.
func ParseDate(date string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, date, Location)
}
