package commands

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"cgv-showtimes/lib/restyutil"
	"cgv-showtimes/lib/scrapers/cgv"
	"cgv-showtimes/lib/theaters"
	"cgv-showtimes/lib/timezone"
	"cgv-showtimes/services/showtimes"

	"github.com/spf13/cobra"
	"github.com/tcnksm/go-input"
)

const (
	formatJson  = "json"
	formatTable = "table"
)

type showtimesFlags struct {
	theaters   string
	timeout    time.Duration
	retries    int
	strictDate bool
	format     string
	dump       string
}

// flags only override the config when they were given explicitly.
func (f showtimesFlags) apply(cmd *cobra.Command, cfg Config) Config {
	if cmd.Flags().Changed("theaters") {
		cfg.Theaters = f.theaters
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Timeout = f.timeout.String()
	}
	if cmd.Flags().Changed("retries") {
		retries := f.retries
		cfg.Retries = &retries
	}
	if cmd.Flags().Changed("strict-date") {
		strictDate := f.strictDate
		cfg.StrictDate = &strictDate
	}
	return cfg
}

func newShowtimesCmd() *cobra.Command {
	var flags showtimesFlags

	cmd := &cobra.Command{
		Use:   "showtimes [theater-name] [date]",
		Short: "Prints the movies, halls and showtimes of a theater on a date (YYYYMMDD).",
		Long: "Prints the movies, halls and showtimes of a theater on a date (YYYYMMDD).\n" +
			"The theater name must exactly match a name in the theater table. " +
			"Missing arguments are prompted for.",
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.format != formatJson && flags.format != formatTable {
				return fmt.Errorf("unknown format %q, expected %s or %s", flags.format, formatJson, formatTable)
			}
			cfg := flags.apply(cmd, configFrom(cmd))

			theaterName, date, err := promptMissing(cmd.InOrStdin(), cmd.ErrOrStderr(), args)
			if err != nil {
				return err
			}

			service, err := newService(cfg, flags.dump)
			if err != nil {
				return err
			}
			movies, err := service.Lookup(cmd.Context(), theaterName, date)
			if err != nil {
				return err
			}
			slog.DebugContext(cmd.Context(), "lookup finished", "movies", len(movies))

			if flags.format == formatTable {
				renderTable(cmd.OutOrStdout(), movies)
				return nil
			}
			return renderJson(cmd.OutOrStdout(), movies)
		},
	}

	cmd.Flags().StringVar(&flags.theaters, "theaters", "theater_data.csv", "The theater lookup table (csv with name and code columns).")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 0, "Request timeout, 0 waits forever.")
	cmd.Flags().IntVar(&flags.retries, "retries", 0, "How many times a failed request is retried.")
	cmd.Flags().BoolVar(&flags.strictDate, "strict-date", false, "Reject dates that are not a valid YYYYMMDD day before making a request.")
	cmd.Flags().StringVar(&flags.format, "format", formatJson, "Output format, json or table.")
	cmd.Flags().StringVar(&flags.dump, "dump", "", "Directory to dump raw http exchanges into.")

	return cmd
}

func promptMissing(in io.Reader, out io.Writer, args []string) (string, string, error) {
	var theaterName, date string
	if len(args) > 0 {
		theaterName = args[0]
	}
	if len(args) > 1 {
		date = args[1]
	}
	if theaterName != "" && date != "" {
		return theaterName, date, nil
	}

	ui := &input.UI{Reader: in, Writer: out}
	var err error
	if theaterName == "" {
		theaterName, err = ui.Ask("영화관 이름을 입력하세요", &input.Options{
			Required:  true,
			Loop:      true,
			HideOrder: true,
		})
		if err != nil {
			return "", "", err
		}
	}
	if date == "" {
		date, err = ui.Ask("날짜를 입력하세요(ex: 20220101)", &input.Options{
			Default:   timezone.Today(),
			HideOrder: true,
		})
		if err != nil {
			return "", "", err
		}
	}
	return theaterName, date, nil
}

func newService(cfg Config, dumpDir string) (showtimes.Service, error) {
	table, err := theaters.Load(cfg.Theaters)
	if err != nil {
		return showtimes.Service{}, err
	}
	timeout, err := cfg.timeout()
	if err != nil {
		return showtimes.Service{}, err
	}

	var dump restyutil.InstrumentOutput
	if dumpDir != "" {
		output, err := restyutil.NewFilesystemOutput(dumpDir)
		if err != nil {
			return showtimes.Service{}, err
		}
		dump = output
	}

	client, err := cgv.NewClient(cgv.ClientOptions{
		BaseUrl:    cfg.BaseUrl,
		Timeout:    timeout,
		RetryCount: cfg.retries(),
		Dump:       dump,
	})
	if err != nil {
		return showtimes.Service{}, err
	}

	return showtimes.NewService(showtimes.Options{
		Theaters:    table,
		Fetcher:     client,
		Extractor:   cgv.NewExtractor(cfg.LinkBase),
		StrictDates: cfg.strictDate(),
	}), nil
}
