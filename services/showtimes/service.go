package showtimes

import (
	"context"
	"fmt"
	"log/slog"

	"cgv-showtimes/lib/scrapers/cgv"
	"cgv-showtimes/lib/telemetry"
	"cgv-showtimes/lib/theaters"
	"cgv-showtimes/lib/timezone"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("cgv-showtimes.services.showtimes")

// InvalidDateError is only returned when strict dates are enabled.
type InvalidDateError struct {
	Date string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date %q, expected YYYYMMDD", e.Date)
}

// Fetcher retrieves the raw showtime page of a theater on a date.
type Fetcher interface {
	FetchShowtimes(ctx context.Context, theaterCode, date string) (string, error)
}

type Options struct {
	Theaters  theaters.Table
	Fetcher   Fetcher
	Extractor cgv.Extractor
	// reject dates that aren't a real YYYYMMDD day before any request is
	// made, instead of letting the site decide.
	StrictDates bool
}

// Service resolves, fetches and extracts in one call. it keeps no state
// between calls, the theater table is only ever read.
type Service struct {
	theaters    theaters.Table
	fetcher     Fetcher
	extractor   cgv.Extractor
	strictDates bool
}

func NewService(opts Options) Service {
	return Service{
		theaters:    opts.Theaters,
		fetcher:     opts.Fetcher,
		extractor:   opts.Extractor,
		strictDates: opts.StrictDates,
	}
}

func (s Service) validateDate(date string) error {
	if !s.strictDates {
		return nil
	}
	_, err := timezone.ParseDate(date)
	if err != nil {
		return &InvalidDateError{Date: date}
	}
	return nil
}

// Lookup returns the movies shown at `theaterName` on `date`. errors are
// never partial, on any failure no movies are returned.
func (s Service) Lookup(ctx context.Context, theaterName, date string) ([]cgv.Movie, error) {
	ctx, span := tracer.Start(ctx, "service:Lookup")
	defer span.End()

	span.SetAttributes(
		attribute.String("theater_name", theaterName),
		attribute.String("date", date),
	)

	code, err := s.theaters.Resolve(theaterName)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to resolve theater")
		return nil, err
	}
	span.SetAttributes(attribute.String("theater_code", code))

	err = s.validateDate(date)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid date")
		return nil, err
	}

	slog.InfoContext(ctx, "fetching showtimes", "theater", theaterName, "code", code, "date", date)

	markup, err := s.fetcher.FetchShowtimes(ctx, code, date)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch showtimes")
		return nil, err
	}

	movies, err := s.extractor.ParseMovies(ctx, markup)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to extract showtimes")
		return nil, err
	}
	return movies, nil
}
