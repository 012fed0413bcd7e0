package main

import (
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
)

func (app *application) serverError(w http.ResponseWriter, err error) {
	trace := fmt.Sprintf("%s\n%s", err.Error(), debug.Stack())
	app.errorLog.Output(2, trace)

	http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
}

// serviceLogger adapts the application loggers to services.Logger.
type serviceLogger struct {
	infoLog  *log.Logger
	errorLog *log.Logger
}

func (l *serviceLogger) Infof(format string, args ...interface{}) {
	l.infoLog.Output(2, fmt.Sprintf(format, args...))
}

func (l *serviceLogger) Errorf(format string, args ...interface{}) {
	l.errorLog.Output(2, fmt.Sprintf(format, args...))
}
