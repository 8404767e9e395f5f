// SPDX-License-Identifier: EPL-2.0

package command

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// LogLevelEnv names the environment variable read for the default log level.
const LogLevelEnv = "OGGPAGES_LOG_LEVEL"

var log = newLogger()

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.Out = os.Stderr
	logger.Formatter = &logrus.TextFormatter{TimestampFormat: time.RFC3339Nano, FullTimestamp: true}
	setLogLevel(logger, os.Getenv(LogLevelEnv))
	return logger
}

func setLogLevel(logger *logrus.Logger, level string) {
	switch strings.ToLower(level) {
	case "debug":
		logger.SetLevel(logrus.DebugLevel)
	case "warn":
		logger.SetLevel(logrus.WarnLevel)
	case "error":
		logger.SetLevel(logrus.ErrorLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}
}

// SetLogLevel overrides the level taken from the environment. An empty
// level keeps it.
func SetLogLevel(level string) {
	if level == "" {
		return
	}
	setLogLevel(log, level)
}

// SetLogWriter redirects log output.
func SetLogWriter(w io.Writer) {
	if w == nil {
		return
	}
	log.Out = w
}
