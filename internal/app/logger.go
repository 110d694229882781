package app

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"megawe/internal/config"
)

// NewLogger builds the process logger: JSON in production, text elsewhere.
// Unknown levels fall back to info.
func NewLogger(cfg config.Config, out io.Writer) *logrus.Logger {
	if out == nil {
		out = os.Stdout
	}
	log := logrus.New()
	log.SetOutput(out)
	if cfg.IsProduction() {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}
