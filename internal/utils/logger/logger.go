// Package logger owns the process-wide zap logger: a colored console core on
// stderr plus an optional plain-text file core.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects the minimum level and the optional log file.
type Config struct {
	Level    string
	FilePath string
}

// swappableWriter lets tests and the CLI redirect console output after the
// core has been built. Sync is a no-op because stderr is unbuffered.
type swappableWriter struct {
	mu sync.RWMutex
	w  io.Writer
}

func (s *swappableWriter) Write(p []byte) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.w == nil {
		return len(p), nil
	}
	return s.w.Write(p)
}

func (s *swappableWriter) Sync() error { return nil }

var (
	mu      sync.RWMutex
	once    sync.Once
	sugar   *zap.SugaredLogger
	base    *zap.Logger
	level   zap.AtomicLevel
	logFile *os.File
	active  Config
	console = &swappableWriter{w: os.Stderr}
)

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewDevelopmentConfig().EncoderConfig
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	return cfg
}

func build(cfg Config) error {
	mu.Lock()
	defer mu.Unlock()

	lvl := parseLevel(cfg.Level)
	if level == (zap.AtomicLevel{}) {
		level = zap.NewAtomicLevelAt(lvl)
	} else {
		level.SetLevel(lvl)
	}

	encCfg := encoderConfig()
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(console), level),
	}

	path := strings.TrimSpace(cfg.FilePath)
	var handle *os.File
	if path != "" {
		core, f, err := fileCore(encCfg, path)
		if err != nil {
			return err
		}
		handle = f
		cores = append(cores, core)
	}
	if logFile != nil && logFile != handle {
		_ = logFile.Close()
	}
	logFile = handle

	base = zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	sugar = base.Sugar()
	zap.ReplaceGlobals(base)

	active = Config{Level: lvl.String(), FilePath: path}
	return nil
}

// fileCore opens path for appending; repeated runs accumulate in one log.
func fileCore(encCfg zapcore.EncoderConfig, path string) (zapcore.Core, *os.File, error) {
	path = filepath.Clean(path)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating log directory %q: %w", dir, err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file %q: %w", path, err)
	}

	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(f), level), f, nil
}

// InitWithConfig installs the logger described by cfg and returns it with a
// cleanup func that flushes and closes the log file. Calling it again with a
// different config rebuilds the cores.
func InitWithConfig(cfg Config) (*zap.SugaredLogger, func(), error) {
	want := Config{Level: parseLevel(cfg.Level).String(), FilePath: strings.TrimSpace(cfg.FilePath)}

	var initErr error
	first := false
	once.Do(func() {
		first = true
		initErr = build(cfg)
	})
	if initErr != nil {
		return nil, nil, fmt.Errorf("logger initialization failed: %w", initErr)
	}

	if !first {
		mu.RLock()
		same := active == want
		mu.RUnlock()
		if !same {
			if err := build(cfg); err != nil {
				return nil, nil, fmt.Errorf("logger reconfiguration failed: %w", err)
			}
		}
	}

	mu.RLock()
	defer mu.RUnlock()
	return sugar, cleanup(logFile), nil
}

// Logger returns the process logger, creating a console-only info logger on
// first use.
func Logger() *zap.SugaredLogger {
	once.Do(func() {
		if err := build(Config{Level: "info"}); err != nil {
			panic(fmt.Sprintf("logger initialization failed: %v", err))
		}
	})

	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

func cleanup(f *os.File) func() {
	return func() {
		mu.Lock()
		defer mu.Unlock()

		if base != nil {
			_ = base.Sync()
		}
		if f == nil {
			return
		}
		if err := f.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "error closing log file: %v\n", err)
		}
		if logFile == f {
			logFile = nil
		}
	}
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// SetLogLevel changes the level of an initialized logger in place.
func SetLogLevel(s string) {
	mu.Lock()
	defer mu.Unlock()

	if level == (zap.AtomicLevel{}) {
		return
	}
	lvl := parseLevel(s)
	level.SetLevel(lvl)
	active.Level = lvl.String()
}

// ReplaceStderrWriter redirects console output and returns the previous
// writer. A nil writer restores os.Stderr.
func ReplaceStderrWriter(w io.Writer) io.Writer {
	if w == nil {
		w = os.Stderr
	}

	console.mu.Lock()
	defer console.mu.Unlock()

	old := console.w
	if old == nil {
		old = os.Stderr
	}
	console.w = w
	return old
}
