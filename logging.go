package journalcrop

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// LogConfig configures the process logger.
type LogConfig struct {
	// Level is a logrus level name (default: "info")
	Level string `yaml:"level"`

	// File additionally receives every log line when set (default: "")
	File string `yaml:"file"`

	// JSON switches to the JSON formatter (default: false)
	JSON bool `yaml:"json"`
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewLogger builds a logger writing to stderr and, when configured, to a log
// file. The returned closer releases the file.
func NewLogger(cfg LogConfig) (*logrus.Logger, io.Closer, error) {
	level := logrus.InfoLevel
	if cfg.Level != "" {
		parsed, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "invalid log level %q", cfg.Level)
		}
		level = parsed
	}

	log := logrus.New()
	log.SetLevel(level)
	if cfg.JSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if cfg.File == "" {
		log.SetOutput(os.Stderr)
		return log, nopCloser{}, nil
	}

	if dir := filepath.Dir(cfg.File); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, errors.Wrap(err, "failed to create log directory")
		}
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to open log file")
	}
	log.SetOutput(io.MultiWriter(os.Stderr, f))
	return log, f, nil
}
