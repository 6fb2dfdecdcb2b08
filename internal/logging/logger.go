package logging

import (
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/segyhp/pledge-desk/internal/config"
)

// Setup configures the package-level logrus logger from config.
func Setup(cfg config.LoggingConfig) {
	level, err := log.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	log.SetOutput(os.Stdout)

	if strings.EqualFold(cfg.Format, "text") {
		log.SetFormatter(&log.TextFormatter{
			TimestampFormat: time.RFC3339,
			FullTimestamp:   true,
		})
		return
	}

	log.SetFormatter(&log.JSONFormatter{TimestampFormat: time.RFC3339Nano})
}
