package libev

// Logger is the logging surface threaded through Mediator and Machine. The
// method set mirrors the structured loggers hosts usually already carry, so
// adapting one is mechanical; NewLogrusLogger covers logrus out of the box.
// The toolkit itself only ever logs at debug level.
type Logger interface {
	WithField(key string, value any) Logger
	Debug(args ...any)
	Debugf(format string, args ...any)
	Debugln(args ...any)
	Info(args ...any)
	Infof(format string, args ...any)
	Infoln(args ...any)
	Warn(args ...any)
	Warnf(format string, args ...any)
	Warnln(args ...any)
	Error(args ...any)
	Errorf(format string, args ...any)
	Errorln(args ...any)
}

// emptyLogger discards every record.
type emptyLogger struct{}

// NewEmptyLogger returns a Logger that discards everything. Composed types
// constructed with a nil logger fall back to it.
func NewEmptyLogger() Logger {
	return emptyLogger{}
}

func (l emptyLogger) WithField(string, any) Logger { return l }

func (emptyLogger) Debug(...any)          {}
func (emptyLogger) Debugf(string, ...any) {}
func (emptyLogger) Debugln(...any)        {}
func (emptyLogger) Info(...any)           {}
func (emptyLogger) Infof(string, ...any)  {}
func (emptyLogger) Infoln(...any)         {}
func (emptyLogger) Warn(...any)           {}
func (emptyLogger) Warnf(string, ...any)  {}
func (emptyLogger) Warnln(...any)         {}
func (emptyLogger) Error(...any)          {}
func (emptyLogger) Errorf(string, ...any) {}
func (emptyLogger) Errorln(...any)        {}
