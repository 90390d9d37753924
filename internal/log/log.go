package log

import (
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

// DebugEnv is the environment variable switching loggers to debug level.
const DebugEnv = "SHADERPIPE_DEBUG"

// GetLogger returns a new logger instance. It logs at debug level when
// DebugEnv parses as true.
func GetLogger() *logrus.Logger {
	l := logrus.New()

	debug, err := strconv.ParseBool(os.Getenv(DebugEnv))
	if err == nil && debug {
		l.SetLevel(logrus.DebugLevel)
	}

	return l
}
