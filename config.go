package journalcrop

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config controls region extraction and outline reconstruction.
type Config struct {
	// InputDir is the directory scanned for PDF files
	InputDir string `yaml:"input_dir"`

	// ImageDir receives one subdirectory of PNG crops per article (default: files/images)
	ImageDir string `yaml:"image_dir"`

	// ResultDir receives one outline JSON file per article (default: files/results)
	ResultDir string `yaml:"result_dir"`

	// Zoom is the rasterization factor applied to crops (default: 3)
	Zoom float64 `yaml:"zoom"`

	// HeaderHeight is the height of the header and footer bands in points (default: 60)
	HeaderHeight float64 `yaml:"header_height"`

	// CaptionBandHeight is the height of the bands probed for a caption
	// above and below a region (default: 22)
	CaptionBandHeight float64 `yaml:"caption_band_height"`

	// ExcludedNames rejects any region whose text contains one of these keywords
	ExcludedNames []string `yaml:"excluded_names"`

	// ReferenceMarker marks the reference section; regions containing it are rejected
	ReferenceMarker string `yaml:"reference_marker"`

	// KeepThirdLevel retains third-level headings in the outline (default: true)
	KeepThirdLevel bool `yaml:"keep_third_level"`

	// Headings binds each heading level to its nominal font size
	Headings HeadingSizes `yaml:"headings"`

	// Workers is the number of documents processed concurrently (default: 1)
	Workers int `yaml:"workers"`

	// ExtractRegions enables figure/table cropping (default: true)
	ExtractRegions bool `yaml:"extract_regions"`

	// BuildOutline enables outline reconstruction (default: true)
	BuildOutline bool `yaml:"build_outline"`

	// Tables configures ruled-table detection
	Tables TableSettings `yaml:"tables"`

	Review ReviewConfig `yaml:"review"`
	Watch  WatchConfig  `yaml:"watch"`
	Log    LogConfig    `yaml:"log"`
}

// ReviewConfig names the directories reviewed article folders are moved to.
type ReviewConfig struct {
	OKDir      string `yaml:"ok_dir"`
	ProblemDir string `yaml:"problem_dir"`
}

// WatchConfig controls watch mode.
type WatchConfig struct {
	// Debounce is how long a file must stay unchanged before it is processed
	Debounce time.Duration `yaml:"debounce"`
}

// DefaultConfig returns the configuration tuned for the journal's layout.
func DefaultConfig() Config {
	return Config{
		ImageDir:          "files/images",
		ResultDir:         "files/results",
		Zoom:              3,
		HeaderHeight:      60,
		CaptionBandHeight: 22,
		ExcludedNames:     []string{"参考文献", "CCF", "特邀专栏作家"},
		ReferenceMarker:   "参考文献",
		KeepThirdLevel:    true,
		Headings:          DefaultHeadingSizes(),
		Workers:           1,
		ExtractRegions:    true,
		BuildOutline:      true,
		Tables:            DefaultTableSettings(),
		Review: ReviewConfig{
			OKDir:      "files/review/ok",
			ProblemDir: "files/review/problem",
		},
		Watch: WatchConfig{
			Debounce: 2 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig reads a YAML file over the defaults and validates the result.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "failed to read config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "failed to parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrapf(err, "invalid config %s", path)
	}

	return cfg, nil
}

// Validate checks the configuration for values the pipeline cannot work with.
func (c Config) Validate() error {
	if c.Zoom <= 0 {
		return errors.Errorf("zoom must be positive, got %v", c.Zoom)
	}
	if c.HeaderHeight < 0 {
		return errors.Errorf("header_height must not be negative, got %v", c.HeaderHeight)
	}
	if c.CaptionBandHeight < 0 {
		return errors.Errorf("caption_band_height must not be negative, got %v", c.CaptionBandHeight)
	}
	if c.Workers < 1 {
		return errors.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	return c.Headings.Validate()
}
