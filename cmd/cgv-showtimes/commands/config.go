package commands

import (
	"fmt"
	"time"

	"cgv-showtimes/lib/configutil"
	"cgv-showtimes/lib/scrapers/cgv"
	"cgv-showtimes/lib/telemetry"

	"github.com/spf13/cobra"
)

const defaultConfigFile = "cgv-showtimes.json5"

type Config struct {
	// path to the theater lookup csv
	Theaters string `json:"theaters"`
	BaseUrl  string `json:"base_url"`
	LinkBase string `json:"link_base"`
	// go duration, empty or "0s" means no timeout
	Timeout string `json:"timeout"`
	// pointers so a local file can set them back to 0 / false
	Retries    *int             `json:"retries"`
	StrictDate *bool            `json:"strict_date"`
	Telemetry  telemetry.Config `json:"telemetry"`
}

func defaultConfig() Config {
	return Config{
		Theaters: "theater_data.csv",
		BaseUrl:  cgv.DefaultBaseUrl,
		LinkBase: cgv.DefaultLinkBase,
	}
}

func (c Config) timeout() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	timeout, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	return timeout, nil
}

func (c Config) retries() int {
	if c.Retries == nil {
		return 0
	}
	return *c.Retries
}

func (c Config) strictDate() bool {
	return c.StrictDate != nil && *c.StrictDate
}

// an explicit --config is read as is, otherwise the default file is
// searched for from the cwd upwards.
func loadConfig(cmd *cobra.Command) (Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return Config{}, err
	}
	if cmd.Flags().Changed("config") {
		return configutil.ReadConfig(path, defaultConfig())
	}
	return configutil.ReadRecursively(path, defaultConfig())
}
