// Package common provides shared constants, types, and utilities
// used across the VPN Panel application.
package common

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// LogLevel represents the severity level of a log message.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l LogLevel) zerolog() zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

const logTimeFormat = "2006/01/02 15:04:05"

// AppLogger is a structured logger for the application.
// Console output is human-readable; the log file receives JSON lines and
// is rotated based on size.
type AppLogger struct {
	mu          sync.Mutex
	level       LogLevel
	logger      zerolog.Logger
	console     io.Writer
	logFile     *os.File
	logDir      string
	filePath    string
	maxFileSize int64 // Maximum file size in bytes before rotation (default: 5MB)
	maxBackups  int   // Maximum number of backup files to keep (default: 5)
}

// LogConfig holds configuration options for the logger.
type LogConfig struct {
	Level      LogLevel
	EnableFile bool
	// DisableConsole turns off terminal output, e.g. while the TUI owns the screen.
	DisableConsole bool
	// Dir overrides the log directory (default ~/.config/vpn-panel/logs).
	Dir         string
	MaxFileSize int64 // in bytes, default 5MB
	MaxBackups  int   // number of rotated files to keep, default 5
}

var _ Logger = (*AppLogger)(nil)

var (
	defaultLogger *AppLogger
	loggerOnce    sync.Once
)

const (
	defaultMaxFileSize = 5 * 1024 * 1024 // 5MB
	defaultMaxBackups  = 5
)

// isSymlink checks if a path is a symbolic link.
// Returns false if path doesn't exist (safe to create).
func isSymlink(path string) bool {
	info, err := os.Lstat(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeSymlink != 0
}

// newConsoleWriter renders events as "2006/01/02 15:04:05 [INFO] file.go:12 > message".
func newConsoleWriter(w io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    true,
		TimeFormat: logTimeFormat,
		FormatLevel: func(i interface{}) string {
			if s, ok := i.(string); ok {
				return "[" + strings.ToUpper(s) + "]"
			}
			return "[???]"
		},
	}
}

// GetLogger returns the singleton logger instance.
func GetLogger() *AppLogger {
	loggerOnce.Do(func() {
		defaultLogger = &AppLogger{
			level:       LevelInfo,
			console:     os.Stderr,
			maxFileSize: defaultMaxFileSize,
			maxBackups:  defaultMaxBackups,
		}
		defaultLogger.rebuild()
	})
	return defaultLogger
}

// InitLogger initializes the logger with custom configuration.
// Should be called early in application startup.
func InitLogger(config LogConfig) error {
	logger := GetLogger()

	logger.mu.Lock()
	logger.level = config.Level
	if config.MaxFileSize > 0 {
		logger.maxFileSize = config.MaxFileSize
	}
	if config.MaxBackups > 0 {
		logger.maxBackups = config.MaxBackups
	}
	if config.DisableConsole {
		logger.console = nil
	}
	logger.logDir = config.Dir
	logger.rebuild()
	logger.mu.Unlock()

	if config.EnableFile {
		return logger.EnableFileLogging()
	}
	return nil
}

// rebuild recreates the zerolog logger from the current outputs.
// Callers must hold l.mu (or own l exclusively).
func (l *AppLogger) rebuild() {
	var writers []io.Writer
	if l.console != nil {
		writers = append(writers, newConsoleWriter(l.console))
	}
	if l.logFile != nil {
		writers = append(writers, l.logFile)
	}

	var out io.Writer = io.Discard
	switch len(writers) {
	case 0:
	case 1:
		out = writers[0]
	default:
		out = zerolog.MultiLevelWriter(writers...)
	}

	l.logger = zerolog.New(out).Level(l.level.zerolog()).With().Timestamp().Logger()
}

// SetLevel sets the minimum log level.
func (l *AppLogger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
	l.rebuild()
}

// SetOutput sets the console output destination.
func (l *AppLogger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.console = w
	l.rebuild()
}

// EnableFileLogging enables logging to a file in addition to the console.
// The log file will be rotated when it exceeds maxFileSize.
func (l *AppLogger) EnableFileLogging() error {
	l.mu.Lock()
	logDir := l.logDir
	l.mu.Unlock()

	if logDir == "" {
		logDir = GetLogDir()
		if logDir == "" {
			return fmt.Errorf("could not determine log directory")
		}
	}

	// Security: verify logDir is not a symlink to prevent symlink attacks
	if isSymlink(logDir) {
		return fmt.Errorf("security error: log directory is a symlink")
	}

	if err := os.MkdirAll(logDir, 0700); err != nil {
		return err
	}

	logPath := filepath.Join(logDir, LogFileName)

	if isSymlink(logPath) {
		return fmt.Errorf("security error: log file is a symlink")
	}

	l.rotateIfNeeded(logPath)

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.logFile != nil {
		l.logFile.Close()
	}

	l.logFile = file
	l.filePath = logPath
	l.rebuild()
	return nil
}

// rotateIfNeeded checks if the log file needs rotation and performs it.
func (l *AppLogger) rotateIfNeeded(logPath string) {
	info, err := os.Stat(logPath)
	if err != nil {
		return // File doesn't exist yet
	}

	if info.Size() < l.maxFileSize {
		return
	}

	l.rotate(logPath)
}

// rotate performs log rotation:
// 1. Compress the current log file
// 2. Remove old backups exceeding maxBackups
func (l *AppLogger) rotate(logPath string) {
	l.mu.Lock()
	if l.logFile != nil {
		l.logFile.Close()
		l.logFile = nil
		l.rebuild()
	}
	l.mu.Unlock()

	timestamp := time.Now().Format("20060102-150405")
	rotatedPath := fmt.Sprintf("%s.%s.gz", logPath, timestamp)

	if err := compressFile(logPath, rotatedPath); err != nil {
		// If compression fails, just rename
		os.Rename(logPath, strings.TrimSuffix(rotatedPath, ".gz"))
	} else {
		os.Remove(logPath)
	}

	l.cleanupOldBackups(logPath)
}

// compressFile compresses a file using gzip.
func compressFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer dstFile.Close()

	gzWriter := gzip.NewWriter(dstFile)
	defer gzWriter.Close()

	_, err = io.Copy(gzWriter, srcFile)
	return err
}

// cleanupOldBackups removes old backup files of logPath exceeding maxBackups.
func (l *AppLogger) cleanupOldBackups(logPath string) {
	matches, err := filepath.Glob(logPath + ".*")
	if err != nil {
		return
	}

	if len(matches) <= l.maxBackups {
		return
	}

	// Sort by modification time (oldest first)
	sort.Slice(matches, func(i, j int) bool {
		infoI, _ := os.Stat(matches[i])
		infoJ, _ := os.Stat(matches[j])
		if infoI == nil || infoJ == nil {
			return false
		}
		return infoI.ModTime().Before(infoJ.ModTime())
	})

	toRemove := len(matches) - l.maxBackups
	for i := 0; i < toRemove; i++ {
		os.Remove(matches[i])
	}
}

// GetLogDir returns the default log directory path.
func GetLogDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config", ConfigDirName, "logs")
}

// LogPath returns the path of the active log file, or "" if file logging is off.
func (l *AppLogger) LogPath() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.filePath
}

// log writes a formatted log message.
func (l *AppLogger) log(level LogLevel, msg string, args ...interface{}) {
	l.mu.Lock()
	logger := l.logger
	l.mu.Unlock()

	event := logger.WithLevel(level.zerolog())
	if event == nil {
		return
	}

	_, file, line, ok := runtime.Caller(2)
	caller := "???"
	if ok {
		caller = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}

	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}

	event.Str(zerolog.CallerFieldName, caller).Msg(msg)
}

// Debug logs a debug message.
func (l *AppLogger) Debug(msg string, args ...interface{}) {
	l.log(LevelDebug, msg, args...)
}

// Info logs an informational message.
func (l *AppLogger) Info(msg string, args ...interface{}) {
	l.log(LevelInfo, msg, args...)
}

// Warn logs a warning message.
func (l *AppLogger) Warn(msg string, args ...interface{}) {
	l.log(LevelWarn, msg, args...)
}

// Error logs an error message.
func (l *AppLogger) Error(msg string, args ...interface{}) {
	l.log(LevelError, msg, args...)
}

// Shorthand functions for default logger.

// LogDebug logs a debug message to the default logger.
func LogDebug(msg string, args ...interface{}) {
	GetLogger().log(LevelDebug, msg, args...)
}

// LogInfo logs an info message to the default logger.
func LogInfo(msg string, args ...interface{}) {
	GetLogger().log(LevelInfo, msg, args...)
}

// LogWarn logs a warning message to the default logger.
func LogWarn(msg string, args ...interface{}) {
	GetLogger().log(LevelWarn, msg, args...)
}

// LogError logs an error message to the default logger.
func LogError(msg string, args ...interface{}) {
	GetLogger().log(LevelError, msg, args...)
}

// Close closes the log file. Should be called on application shutdown.
func (l *AppLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.logFile != nil {
		err := l.logFile.Close()
		l.logFile = nil
		l.rebuild()
		return err
	}
	return nil
}

// CloseLogger closes the default logger.
func CloseLogger() error {
	return GetLogger().Close()
}
