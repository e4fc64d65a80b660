// Package logging is the process-wide leveled logger, a thin layer over
// log/slog that keeps the printf call sites used across the converters.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
)

type Level = slog.Level

const (
	DebugLevel = slog.LevelDebug
	InfoLevel  = slog.LevelInfo
	WarnLevel  = slog.LevelWarn
	ErrorLevel = slog.LevelError
)

var level = new(slog.LevelVar)

func init() { SetOutput(os.Stderr) }

// ParseLevel accepts the slog level names, case-insensitively, and
// "warning".
func ParseLevel(s string) (Level, error) {
	if strings.EqualFold(s, "warning") {
		return WarnLevel, nil
	}
	var l Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return InfoLevel, errors.Errorf("unknown log level %q", s)
	}
	return l, nil
}

func SetLevel(l Level) { level.Set(l) }

func GetLevel() Level { return level.Level() }

// SetOutput routes the default slog logger, and with it the std log
// package, to w.
func SetOutput(w io.Writer) {
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

func Debugf(format string, args ...any) { slog.Debug(fmt.Sprintf(format, args...)) }
func Infof(format string, args ...any)  { slog.Info(fmt.Sprintf(format, args...)) }
func Warnf(format string, args ...any)  { slog.Warn(fmt.Sprintf(format, args...)) }
func Errorf(format string, args ...any) { slog.Error(fmt.Sprintf(format, args...)) }
