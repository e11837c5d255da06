package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Setup returns the application logger. Output goes to a log file, never
// the terminal: the TUI owns stdout. When the log file cannot be opened
// the logger discards output rather than failing startup.
func Setup() *logrus.Logger {
	logger := &logrus.Logger{
		Formatter: &logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyLevel: "loglevel",
			},
		},
		Out:   io.Discard,
		Level: logrus.InfoLevel,
	}

	path, err := logPathFromEnv()
	if err != nil {
		return logger
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return logger
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return logger
	}

	logger.Out = file
	return logger
}

func logPathFromEnv() (string, error) {
	if path := strings.TrimSpace(os.Getenv("FINBOOK_LOG_PATH")); path != "" {
		return path, nil
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "finbook", "finbook.log"), nil
}
