// Package logger wraps zap for the baker. Console output goes to stderr so
// stdout stays free for command results; an optional log file is rotated
// by lumberjack and can be written as JSON lines for batch runs.
package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the process-wide logger. It is a no-op until Init is called.
var Log *zap.Logger

// Sugar is the sugared form of Log.
var Sugar *zap.SugaredLogger

// File output encodings.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Options controls logger construction.
type Options struct {
	Level   string
	Console bool // write to stderr
	File    FileConfig
}

// FileConfig describes the rotated log file. An empty Path disables it.
type FileConfig struct {
	Path       string
	Format     string // FormatConsole or FormatJSON
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultFileConfig returns rotation settings for path.
func DefaultFileConfig(path string) FileConfig {
	return FileConfig{
		Path:       path,
		Format:     FormatConsole,
		MaxSizeMB:  20,
		MaxBackups: 5,
		MaxAgeDays: 14,
		Compress:   true,
	}
}

func init() {
	Log = zap.NewNop()
	Sugar = Log.Sugar()
}

// Init logs to stderr and, if logFile is set, to a rotated file.
func Init(level, logFile string) error {
	opts := Options{Level: level, Console: true}
	if logFile != "" {
		opts.File = DefaultFileConfig(logFile)
		if strings.HasSuffix(logFile, ".json") || strings.HasSuffix(logFile, ".jsonl") {
			opts.File.Format = FormatJSON
		}
	}
	return InitWithOptions(opts)
}

// InitWithOptions replaces Log according to opts.
func InitWithOptions(opts Options) error {
	lvl, err := parseLevel(opts.Level)
	if err != nil {
		return err
	}

	var cores []zapcore.Core
	if opts.Console {
		enc := encoderConfig()
		enc.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.Lock(os.Stderr), lvl))
	}

	if opts.File.Path != "" {
		fileEncoder, err := newFileEncoder(opts.File.Format)
		if err != nil {
			return err
		}
		w := &lumberjack.Logger{
			Filename:   opts.File.Path,
			MaxSize:    opts.File.MaxSizeMB,
			MaxBackups: opts.File.MaxBackups,
			MaxAge:     opts.File.MaxAgeDays,
			Compress:   opts.File.Compress,
			LocalTime:  true,
		}
		cores = append(cores, zapcore.NewCore(fileEncoder, zapcore.AddSync(w), lvl))
	}

	Log = zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	Sugar = Log.Sugar()
	return nil
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		NameKey:          "logger",
		MessageKey:       "msg",
		CallerKey:        "caller",
		EncodeTime:       zapcore.ISO8601TimeEncoder,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeCaller:     zapcore.ShortCallerEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	}
}

func newFileEncoder(format string) (zapcore.Encoder, error) {
	switch strings.ToLower(format) {
	case FormatConsole, "":
		return zapcore.NewConsoleEncoder(encoderConfig()), nil
	case FormatJSON:
		enc := encoderConfig()
		enc.EncodeLevel = zapcore.LowercaseLevelEncoder
		return zapcore.NewJSONEncoder(enc), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

// parseLevel maps a level name to zap. Empty means info.
func parseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info", "":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

// Named returns a child of Log tagged with a component name.
func Named(name string) *zap.Logger {
	return Log.Named(name)
}

// Sync flushes buffered entries.
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}

// Debug logs msg at debug level on Log.
func Debug(msg string, fields ...zap.Field) {
	Log.Debug(msg, fields...)
}

// Info logs msg at info level on Log.
func Info(msg string, fields ...zap.Field) {
	Log.Info(msg, fields...)
}

// Warn logs msg at warn level on Log.
func Warn(msg string, fields ...zap.Field) {
	Log.Warn(msg, fields...)
}

// Error logs msg at error level on Log.
func Error(msg string, fields ...zap.Field) {
	Log.Error(msg, fields...)
}
