package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"daily-bread/internal/config"

	"gopkg.in/lumberjack.v2"
)

// Rotation defaults applied when a partial LogConfig leaves them zero, as
// the seeder and tests do.
const (
	defaultMaxSizeMB  = 100
	defaultMaxBackups = 3
	defaultMaxAgeDays = 30
)

func Init(cfg config.LogConfig) {
	h := slog.NewJSONHandler(destination(cfg), &slog.HandlerOptions{Level: levelFrom(cfg.Level)})
	slog.SetDefault(slog.New(h))
	Info("logger initialized", "level", cfg.Level, "file", cfg.File)
}

func destination(cfg config.LogConfig) io.Writer {
	var writers []io.Writer
	if cfg.Console {
		writers = append(writers, os.Stdout)
	}
	if cfg.File != "" {
		writers = append(writers, rotatingFile(cfg))
	}
	if len(writers) == 0 {
		return os.Stdout
	}
	return io.MultiWriter(writers...)
}

func rotatingFile(cfg config.LogConfig) io.Writer {
	size, backups, age := cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays
	if size <= 0 {
		size = defaultMaxSizeMB
	}
	if backups <= 0 {
		backups = defaultMaxBackups
	}
	if age <= 0 {
		age = defaultMaxAgeDays
	}
	return &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    size,
		MaxBackups: backups,
		MaxAge:     age,
		LocalTime:  true,
	}
}

func Info(msg string, args ...any)  { slog.Info(msg, args...) }
func Warn(msg string, args ...any)  { slog.Warn(msg, args...) }
func Error(msg string, args ...any) { slog.Error(msg, args...) }
func Debug(msg string, args ...any) { slog.Debug(msg, args...) }

func levelFrom(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
