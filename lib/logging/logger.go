package logging

import (
	"os"

	"github.com/labstack/gommon/log"
	"github.com/ziflex/lecho/v3"
)

// Logger builds the zerolog-backed echo logger every component shares.
// Output goes to STDOUT unless LOG_FILE_PATH is set, in which case the
// file is opened in append mode so restarts keep a single continuous log.
func Logger(logFilePath string) *lecho.Logger {
	logger := lecho.New(
		os.Stdout,
		lecho.WithLevel(log.DEBUG),
		lecho.WithTimestamp(),
	)
	if logFilePath == "" {
		return logger
	}

	file, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		// a broken log path should not take the shop down
		logger.Errorf("Failed to open log file %s, staying on stdout: %v", logFilePath, err)
		return logger
	}
	logger.SetOutput(file)
	return logger
}
