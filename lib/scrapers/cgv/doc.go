// Package cgv scrapes the showtime page of a CGV theater.
//
// scraping a page goes through the usual three steps:
// 1) input -> req: the theater code and date become a query on the
// iframeTheater endpoint, nothing is validated.
// 2) req -> res: a single GET, see Client.
// 3) res -> output: goquery selectors into []Movie, see Extractor.
//
// the page is read-only and the endpoint needs no login, so a Client
// carries no state besides its http configuration.
package cgv
