package internal

import (
	"github.com/sirupsen/logrus"

	"github.com/frankli0324/go-fetch/internal/http"
)

type Logger = http.Logger

type logrusLogger struct {
	l *logrus.Logger
}

func (l logrusLogger) Errorf(format string, v ...interface{}) { l.l.Errorf(format, v...) }
func (l logrusLogger) Warnf(format string, v ...interface{})  { l.l.Warnf(format, v...) }
func (l logrusLogger) Debugf(format string, v ...interface{}) { l.l.Debugf(format, v...) }

// NewLogrusLogger adapts a logrus logger to the client's [Logger]
// surface.
func NewLogrusLogger(l *logrus.Logger) Logger {
	return logrusLogger{l}
}

var defaultLogger Logger = logrusLogger{logrus.StandardLogger()}
