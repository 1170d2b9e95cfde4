package internal

import (
	"fmt"
	"log"
	"time"

	"vendpay/entity"
	"vendpay/services"
)

// Logger writes timestamped, per-module log lines to standard output and,
// when a database sink is configured, persists them to the log collection.
type Logger struct {
	module   string
	isDebug  bool
	database services.Database
}

// NewLogger creates a logger for the named module. The database may be nil;
// persistence is then skipped.
func NewLogger(module string, isDebug bool, database services.Database) *Logger {
	return &Logger{
		module:   module,
		isDebug:  isDebug,
		database: database,
	}
}

func (l *Logger) Debug(message string) {
	if !l.isDebug {
		return
	}
	l.write("DEBUG", message)
}

func (l *Logger) Info(message string) {
	l.write("INFO", message)
}

func (l *Logger) Warn(message string) {
	l.write("WARN", message)
}

func (l *Logger) Error(message string, err error) {
	l.write("ERROR", fmt.Sprintf("%s; %v", message, err))
}

func (l *Logger) write(level, message string) {
	log.Printf("%s\t%s: %s", level, l.module, message)
	if l.database == nil {
		return
	}
	record := &entity.LogMessage{
		Time:   time.Now(),
		Level:  level,
		Module: l.module,
		Text:   message,
	}
	if err := l.database.WriteLogMessage(record); err != nil {
		log.Printf("ERROR\t%s: write log record; %v", l.module, err)
	}
}
