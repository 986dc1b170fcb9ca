package libev

import "github.com/sirupsen/logrus"

// logrusLogger adapts a logrus entry to the Logger interface.
type logrusLogger struct {
	entry *logrus.Entry
}

// NewLogrusLogger wraps a logrus logger so it can be handed to the composed
// types. A nil logger gets a fresh logrus.New().
func NewLogrusLogger(l *logrus.Logger) Logger {
	if l == nil {
		l = logrus.New()
	}
	return &logrusLogger{entry: logrus.NewEntry(l)}
}

func (l *logrusLogger) WithField(key string, value any) Logger {
	return &logrusLogger{entry: l.entry.WithField(key, value)}
}

func (l *logrusLogger) Debug(args ...any) { l.entry.Debug(args...) }

func (l *logrusLogger) Debugf(format string, args ...any) { l.entry.Debugf(format, args...) }

func (l *logrusLogger) Debugln(args ...any) { l.entry.Debugln(args...) }

func (l *logrusLogger) Info(args ...any) { l.entry.Info(args...) }

func (l *logrusLogger) Infof(format string, args ...any) { l.entry.Infof(format, args...) }

func (l *logrusLogger) Infoln(args ...any) { l.entry.Infoln(args...) }

func (l *logrusLogger) Warn(args ...any) { l.entry.Warn(args...) }

func (l *logrusLogger) Warnf(format string, args ...any) { l.entry.Warnf(format, args...) }

func (l *logrusLogger) Warnln(args ...any) { l.entry.Warnln(args...) }

func (l *logrusLogger) Error(args ...any) { l.entry.Error(args...) }

func (l *logrusLogger) Errorf(format string, args ...any) { l.entry.Errorf(format, args...) }

func (l *logrusLogger) Errorln(args ...any) { l.entry.Errorln(args...) }
