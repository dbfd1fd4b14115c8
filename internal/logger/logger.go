package logger

import (
	"io"
	"time"

	"github.com/natefinch/lumberjack"
	logrus "github.com/sirupsen/logrus"
)

var rotator io.Writer

// Setup sends logrus output to a rotating file at path.
func Setup(path, level string) {
	rotator = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 7,
		MaxAge:     7, // days
		Compress:   true,
	}

	logrus.SetOutput(rotator)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.DebugLevel
	}
	logrus.SetLevel(lvl)
}

// Writer is the rotating log file, for request logging. Before Setup it is logrus' output.
func Writer() io.Writer {
	if rotator == nil {
		return logrus.StandardLogger().Out
	}
	return rotator
}

// GormLogger returns the standard Logrus logger for GORM
func GormLogger() *logrus.Logger {
	return logrus.StandardLogger()
}
