package commands

import (
	"context"
	"errors"
	"log/slog"

	"cgv-showtimes/lib/scrapers/cgv"
	"cgv-showtimes/lib/serviceutil"
	"cgv-showtimes/lib/telemetry"
	"cgv-showtimes/lib/theaters"
	"cgv-showtimes/services/showtimes"

	"github.com/spf13/cobra"
)

type configKey struct{}

func configFrom(cmd *cobra.Command) Config {
	cfg, ok := cmd.Context().Value(configKey{}).(Config)
	if !ok {
		return defaultConfig()
	}
	return cfg
}

// the providers set up by the pre-run are registered on `tel`, the caller
// shuts it down once the command returned.
func newRootCmd(tel *telemetry.Telemetry) *cobra.Command {
	root := &cobra.Command{
		Use:           "cgv-showtimes",
		Short:         "cgv-showtimes prints the showtimes of a CGV theater on a given date.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			verbose, err := cmd.Flags().GetBool("verbose")
			if err != nil {
				return err
			}
			telemetry.InitSlog(verbose)

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			setup, err := telemetry.Setup(cmd.Context(), "cgv-showtimes", cfg.Telemetry)
			if err != nil {
				return err
			}
			tel.OnShutdown(setup.Shutdown)
			cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
			return nil
		},
	}
	root.PersistentFlags().String("config", defaultConfigFile, "Configuration file, a .local variant next to it takes priority.")
	root.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging.")

	root.AddCommand(newShowtimesCmd())
	root.AddCommand(newTheatersCmd())
	return root
}

// ErrorKind names the class of a failure for the user.
func ErrorKind(err error) string {
	var notFound *theaters.NotFoundError
	var fetch *cgv.FetchError
	var extraction *cgv.ExtractionError
	var mismatch *cgv.StructureMismatchError
	var invalidDate *showtimes.InvalidDateError

	switch {
	case errors.As(err, &notFound):
		return "theater not found"
	case errors.As(err, &fetch):
		return "failed to fetch showtimes"
	case errors.As(err, &extraction):
		return "missing field in showtimes page"
	case errors.As(err, &mismatch):
		return "unexpected showtimes page structure"
	case errors.As(err, &invalidDate):
		return "invalid date"
	case errors.Is(err, context.Canceled):
		return "interrupted"
	}
	return "command failed"
}

// execute runs the command tree and shuts telemetry down afterwards,
// failed commands included.
func execute(ctx context.Context, root *cobra.Command, tel *telemetry.Telemetry) error {
	err := root.ExecuteContext(ctx)
	shutdownErr := tel.Shutdown(context.WithoutCancel(ctx))
	if err != nil {
		if shutdownErr != nil {
			slog.WarnContext(ctx, "failed to shut down telemetry", "err", shutdownErr)
		}
		return err
	}
	return shutdownErr
}

func ExecuteContext(ctx context.Context) {
	var tel telemetry.Telemetry
	err := execute(ctx, newRootCmd(&tel), &tel)
	if err != nil {
		serviceutil.Fatal(ErrorKind(err), err)
	}
}
