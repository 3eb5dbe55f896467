package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the process-wide logger from log_file/log_level,
// mirroring the teacher's single package-level logger, swapped from the
// defunct log4go onto logrus.
func NewLogger(c Config) (*logrus.Logger, error) {
	logger := logrus.New()

	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if c.LogFile != "" {
		f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, err
		}
		logger.SetOutput(f)
	}
	return logger, nil
}
