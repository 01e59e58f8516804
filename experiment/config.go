package experiment

import (
	"fmt"
	"os"
	"strings"

	"github.com/skypies/geo"
	"gopkg.in/yaml.v3"

	"github.com/skypies/lorarange/reception"
)

// Coord is a latitude/longitude pair as written in the config file.
type Coord struct {
	Lat  float64 `yaml:"lat"`
	Long float64 `yaml:"long"`
}

func (c Coord) Latlong() geo.Latlong { return geo.Latlong{Lat: c.Lat, Long: c.Long} }

// Box is a rectangle given by its south-west and north-east corners.
type Box struct {
	SW Coord `yaml:"sw"`
	NE Coord `yaml:"ne"`
}

func (b Box) IsZero() bool { return b == Box{} }

func (b Box) LatlongBox() geo.LatlongBox {
	return geo.NewLatlongBox(b.SW.Latlong(), b.NE.Latlong())
}

type LogFormatConfig struct {
	reception.CommentSyntax `yaml:",inline"`
	Receiver                reception.ReceiverFormat `yaml:"receiver"`
	Strict                  bool                     `yaml:"strict"`
}

// FilterConfig is the post-hoc sanity filter; zero values disable each check.
type FilterConfig struct {
	MaxDistanceMeters float64 `yaml:"max_distance_m"`
	Bounds            Box     `yaml:"bounds"`
}

// GridConfig lays rectangular tiles over the map, starting at Bounds.SW.
type GridConfig struct {
	Bounds   Box     `yaml:"bounds"`
	TileLat  float64 `yaml:"tile_lat_deg"`
	TileLong float64 `yaml:"tile_long_deg"`
}

type RadialConfig struct {
	BandMeters float64 `yaml:"band_m"`
	MaxMeters  float64 `yaml:"max_m"`
}

// ColorConfig fixes the RSSI range of the colour gradient. If both are zero, the range is
// taken from the data.
type ColorConfig struct {
	RSSIMin int `yaml:"rssi_min"`
	RSSIMax int `yaml:"rssi_max"`
}

func (c ColorConfig) IsZero() bool { return c.RSSIMin == 0 && c.RSSIMax == 0 }

type PlotConfig struct {
	WidthInches  float64 `yaml:"width_in"`
	HeightInches float64 `yaml:"height_in"`
}

// Config carries every tunable of an analysis run.
type Config struct {
	ResultsDir   string           `yaml:"results_dir"`
	BaseStations map[string]Coord `yaml:"base_stations"`
	LogFormat    LogFormatConfig  `yaml:"log_format"`
	Filter       FilterConfig     `yaml:"filter"`
	Grid         GridConfig       `yaml:"grid"`
	Radial       RadialConfig     `yaml:"radial"`
	Colors       ColorConfig      `yaml:"colors"`
	Plot         PlotConfig       `yaml:"plot"`
}

// {{{ DefaultConfig

// DefaultConfig describes the UWA campus experiments: two base stations, a 2km outlier
// cut-off, and the current receiver firmware's log layout.
func DefaultConfig() *Config {
	return &Config{
		ResultsDir: "results",
		BaseStations: map[string]Coord{
			"Cameron": {Lat: -31.980937, Long: 115.819665},
			"Reid":    {Lat: -31.979143, Long: 115.818025},
		},
		LogFormat: LogFormatConfig{
			CommentSyntax: reception.DefaultCommentSyntax(),
			Receiver:      reception.DefaultReceiverFormat(),
		},
		Filter: FilterConfig{MaxDistanceMeters: 2000},
		Grid: GridConfig{
			Bounds: Box{
				SW: Coord{Lat: -31.9900, Long: 115.8050},
				NE: Coord{Lat: -31.9700, Long: 115.8300},
			},
			TileLat:  0.001,
			TileLong: 0.001,
		},
		Radial: RadialConfig{BandMeters: 100, MaxMeters: 2000},
		Colors: ColorConfig{RSSIMin: -120, RSSIMax: -40},
		Plot:   PlotConfig{WidthInches: 8, HeightInches: 6},
	}
}

// }}}
// {{{ LoadConfig

// LoadConfig reads a YAML config over the defaults, so a file only needs the keys it
// changes. An empty path returns the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// }}}
// {{{ cfg.Validate

func (cfg *Config) Validate() error {
	if len(cfg.BaseStations) == 0 {
		return fmt.Errorf("no base_stations configured")
	}
	if err := cfg.LogFormat.Receiver.Validate(); err != nil {
		return err
	}
	if cfg.Grid.TileLat <= 0 || cfg.Grid.TileLong <= 0 {
		return fmt.Errorf("grid tiles must have positive size, got %gx%g",
			cfg.Grid.TileLat, cfg.Grid.TileLong)
	}
	if cfg.Radial.BandMeters <= 0 {
		return fmt.Errorf("radial band_m must be positive, got %g", cfg.Radial.BandMeters)
	}
	if !cfg.Colors.IsZero() && cfg.Colors.RSSIMin >= cfg.Colors.RSSIMax {
		return fmt.Errorf("colors: rssi_min (%d) must be below rssi_max (%d)",
			cfg.Colors.RSSIMin, cfg.Colors.RSSIMax)
	}
	return nil
}

// }}}

// BaseStation looks up a location case-insensitively.
func (cfg *Config) BaseStation(location string) (geo.Latlong, error) {
	for name, c := range cfg.BaseStations {
		if strings.EqualFold(name, location) {
			return c.Latlong(), nil
		}
	}
	return geo.Latlong{}, fmt.Errorf("%w: %q", ErrUnknownLocation, location)
}

// Reconciler builds a reception.Reconciler for this config's log format.
func (cfg *Config) Reconciler() *reception.Reconciler {
	r := reception.New()
	r.Format = cfg.LogFormat.Receiver
	r.Comments = cfg.LogFormat.CommentSyntax
	r.Strict = cfg.LogFormat.Strict
	return r
}
