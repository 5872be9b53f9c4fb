// Package logger provides the leveled logger shared by the server
// entrypoint and the HTTP error mapper.
package logger

import (
	"io"
	"log"
	"os"
)

// Logger is the logging surface the server depends on.
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Fatal(msg string, err error, fields ...interface{})
}

type stdLogger struct {
	out *log.Logger
	err *log.Logger
}

// New returns a Logger writing info to stdout and errors to stderr.
func New() Logger {
	return NewWithOutput(os.Stdout, os.Stderr)
}

// NewWithOutput returns a Logger writing to the given destinations.
func NewWithOutput(out, errOut io.Writer) Logger {
	return &stdLogger{
		out: log.New(out, "INFO: ", log.Ldate|log.Ltime),
		err: log.New(errOut, "ERROR: ", log.Ldate|log.Ltime),
	}
}

func (l *stdLogger) Info(msg string, fields ...interface{}) {
	if len(fields) > 0 {
		l.out.Printf("%s %v", msg, fields)
		return
	}
	l.out.Print(msg)
}

func (l *stdLogger) Error(msg string, err error, fields ...interface{}) {
	if len(fields) > 0 {
		l.err.Printf("%s: %v %v", msg, err, fields)
		return
	}
	l.err.Printf("%s: %v", msg, err)
}

// Fatal logs to the error destination and exits the process.
func (l *stdLogger) Fatal(msg string, err error, fields ...interface{}) {
	if len(fields) > 0 {
		l.err.Fatalf("%s: %v %v", msg, err, fields)
		return
	}
	l.err.Fatalf("%s: %v", msg, err)
}
