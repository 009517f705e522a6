// Package logging builds the slog loggers shared by the board server and CLI.
package logging

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Default size limits for the board log file.
const (
	DefaultMaxBytes  = 6 * 1024 * 1024
	DefaultKeepBytes = 5 * 1024 * 1024
)

// Options selects where and how much the board logs.
type Options struct {
	Level string
	// Path, when set, sends records to a size-capped file instead of Fallback.
	Path     string
	Fallback io.Writer
}

// New returns a text logger and a closer for any file it opened.
// A log file that cannot be opened falls back to Fallback and is reported
// through the returned logger.
func New(opts Options) (*slog.Logger, io.Closer) {
	var out io.Writer = io.Discard
	if opts.Fallback != nil {
		out = opts.Fallback
	}
	var closer io.Closer = nopCloser{}
	var openErr error

	if opts.Path != "" {
		f, err := OpenFile(opts.Path, DefaultMaxBytes, DefaultKeepBytes)
		if err != nil {
			openErr = err
		} else {
			out, closer = f, f
		}
	}

	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: ParseLevel(opts.Level)}))
	if openErr != nil {
		logger.Warn("log file unavailable, using fallback", "path", opts.Path, "error", openErr)
	}
	return logger, closer
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel maps a config level name to slog; unknown names mean info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// File is an append-only log file that, once it grows past maxBytes, keeps only
// the newest keepBytes starting at a record boundary.
type File struct {
	mu        sync.Mutex
	file      *os.File
	maxBytes  int64
	keepBytes int64
}

// OpenFile opens or creates path, creating parent directories as needed.
func OpenFile(path string, maxBytes, keepBytes int64) (*File, error) {
	if keepBytes <= 0 || keepBytes > maxBytes {
		return nil, fmt.Errorf("invalid log limits: keep %d, max %d", keepBytes, maxBytes)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating log dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	lf := &File{file: f, maxBytes: maxBytes, keepBytes: keepBytes}
	if err := lf.trim(); err != nil {
		_ = f.Close()
		return nil, err
	}
	return lf, nil
}

func (f *File) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	n, err := f.file.Write(p)
	if err != nil {
		return n, err
	}
	return n, f.trim()
}

func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.file.Close()
}

// trim rewrites the file with its tail. Callers must hold f.mu.
func (f *File) trim() error {
	info, err := f.file.Stat()
	if err != nil {
		return err
	}
	size := info.Size()
	if size <= f.maxBytes {
		return nil
	}

	tail := make([]byte, f.keepBytes)
	n, err := f.file.ReadAt(tail, size-f.keepBytes)
	if err != nil && err != io.EOF {
		return err
	}
	tail = tail[:n]
	// Drop the partial record the cut landed in.
	if i := bytes.IndexByte(tail, '\n'); i >= 0 && i+1 < len(tail) {
		tail = tail[i+1:]
	}

	if err := f.file.Truncate(0); err != nil {
		return err
	}
	// O_APPEND writes land at the new end of file after truncation.
	_, err = f.file.Write(tail)
	return err
}
