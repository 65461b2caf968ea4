// Package log provides the leveled logging used throughout the
// accelerator: lbvh.Build logs its triangle and node counts and elapsed
// time at debug level, and cmd/lbvh-bench logs mesh loading at info level.
// Its -v/-vv flags map directly onto SetLevel(Info)/SetLevel(Debug).
package log

import (
	"io"
	"os"

	"github.com/op/go-logging"
)

type Level logging.Level

// The levels cmd/lbvh-bench's -v/-vv flags and lbvh.Build's diagnostics
// use. Notice is the default: quiet unless a build or traversal actually
// fails.
const (
	Debug Level = iota
	Info
	Notice
	Error
)

var format = logging.MustStringFormatter(
	`%{color}[%{time:15:04:05.000}] [%{module}] [%{level}]%{color:reset} %{message}`,
)

var leveledBackend logging.LeveledBackend

// Logger is trimmed to the debug, info and error levels; this repo calls
// Debugf for build diagnostics, Infof for CLI progress and Errorf for CLI
// failures.
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})

	Info(v ...interface{})
	Infof(format string, v ...interface{})

	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

// New creates a named logger; the name appears in every line it emits, so
// lbvh.Build and cmd/lbvh-bench use distinct names ("lbvh", "lbvh-bench").
func New(name string) Logger {
	return logging.MustGetLogger(name)
}

// SetSink overrides the backend output sink.
func SetSink(sink io.Writer) {
	backend := logging.NewLogBackend(sink, "", 0)
	backendWithFormatter := logging.NewBackendFormatter(backend, format)
	leveledBackend = logging.AddModuleLevel(backendWithFormatter)
	leveledBackend.SetLevel(logging.INFO, "")
	logging.SetBackend(leveledBackend)
}

// SetLevel sets logger verbosity.
func SetLevel(level Level) {
	var loggerLevel logging.Level

	switch level {
	case Debug:
		loggerLevel = logging.DEBUG
	case Info:
		loggerLevel = logging.INFO
	case Notice:
		loggerLevel = logging.NOTICE
	case Error:
		loggerLevel = logging.ERROR
	}

	leveledBackend.SetLevel(loggerLevel, "")
}

func init() {
	SetSink(os.Stdout)
	SetLevel(Notice)
}
