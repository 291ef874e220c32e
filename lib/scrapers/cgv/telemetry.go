package cgv

import (
	"cgv-showtimes/lib/telemetry"

	"go.opentelemetry.io/otel/metric"
)

var tracer = telemetry.Tracer("cgv-showtimes.lib.scrapers.cgv")
var meter = telemetry.Meter("cgv-showtimes.lib.scrapers.cgv")

var moviesCounter, _ = meter.Int64Counter(
	"cgv.movies_extracted",
	metric.WithDescription("movies extracted from showtime pages"),
)
var soldOutCounter, _ = meter.Int64Counter(
	"cgv.showtimes_sold_out",
	metric.WithDescription("showtime slots without a booking link"),
)
