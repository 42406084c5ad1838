package log

import (
	"io"
	"log"
)

var (
	logger Logger
)

// Logger is implemented by anything the suite can route its log lines to.
type Logger interface {
	Infof(format string, v ...interface{})
	Debugf(format string, v ...interface{})
	Warnf(format string, v ...interface{})
}

func SetLogger(l Logger) {
	logger = l
}

func Infof(format string, v ...interface{}) {
	if logger != nil {
		logger.Infof(format, v...)
	} else {
		log.Printf("[INFO] "+format, v...)
	}
}

func Debugf(format string, v ...interface{}) {
	if logger != nil {
		logger.Debugf(format, v...)
	} else {
		log.Printf("[DEBUG] "+format, v...)
	}
}

func Warnf(format string, v ...interface{}) {
	if logger != nil {
		logger.Warnf(format, v...)
	} else {
		log.Printf("[WARN] "+format, v...)
	}
}

// debugWriter forwards everything written to it to Debugf.
type debugWriter struct{}

func (debugWriter) Write(p []byte) (int, error) {
	Debugf("%s", p)
	return len(p), nil
}

// NewDebugLogger returns a writer that can back a stdlib *log.Logger, e.g. the
// grpc retry interceptor logger.
func NewDebugLogger() io.Writer {
	return debugWriter{}
}
