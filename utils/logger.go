package utils

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"
)

type Logger struct {
	l  *log.Logger
	ts bool
}

func NewLogger(withTimestamp bool) *Logger {
	return &Logger{
		l:  log.New(os.Stdout, "", 0),
		ts: withTimestamp,
	}
}

func (lg *Logger) emit(level, format string, args ...any) {
	if lg.ts {
		lg.l.Printf("[%s] %-5s %s", time.Now().Format(time.RFC3339), level, fmt.Sprintf(format, args...))
	} else {
		lg.l.Printf("%-5s %s", level, fmt.Sprintf(format, args...))
	}
}

func (lg *Logger) Info(format string, args ...any) {
	lg.emit("INFO", format, args...)
}

func (lg *Logger) Warn(format string, args ...any) {
	lg.emit("WARN", format, args...)
}

func (lg *Logger) Error(format string, args ...any) {
	lg.emit("ERROR", format, args...)
}

// Fatal logs and exits; stages use it for missing or malformed input
// files, where continuing would run the rest of the pipeline on garbage.
func (lg *Logger) Fatal(format string, args ...any) {
	lg.emit("FATAL", format, args...)
	os.Exit(1)
}

// Section prints a banner separating the phases of a stage in the console output.
func (lg *Logger) Section(title string) {
	pad := 60 - len(title)
	if pad < 0 {
		pad = 0
	}
	lg.l.Printf("=== %s %s", title, strings.Repeat("=", pad))
}
