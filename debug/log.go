package debug

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	logger = newLogger(os.Stderr, logrus.InfoLevel)
	file   *os.File
	mu     sync.Mutex
)

func newLogger(w io.Writer, level logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})
	return l
}

// Enable redirects logging to path at debug level (truncating the file)
func Enable(path string) error {
	mu.Lock()
	defer mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if file != nil {
		file.Close()
	}
	file = f

	logger.SetOutput(f)
	logger.SetLevel(logrus.DebugLevel)
	logger.WithField("cat", "debug").Debug("=== Debug logging started ===")
	return nil
}

// Disable closes the debug file and goes back to stderr at info level
func Disable() {
	mu.Lock()
	defer mu.Unlock()

	if file != nil {
		file.Close()
		file = nil
	}
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.InfoLevel)
}

// SetOutput sends log output to w (tests, simulator)
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

// SetVerbose toggles debug-level output without changing the destination
func SetVerbose(on bool) {
	if on {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}
}

// Log writes a debug-level message under category
func Log(category, format string, args ...any) {
	logger.WithField("cat", category).Debugf(format, args...)
}

func Info(category, format string, args ...any) {
	logger.WithField("cat", category).Infof(format, args...)
}

func Warn(category, format string, args ...any) {
	logger.WithField("cat", category).Warnf(format, args...)
}

func Error(category, format string, args ...any) {
	logger.WithField("cat", category).Errorf(format, args...)
}

// LogEvery logs only every N calls (use for high-frequency events)
var counters = make(map[string]int)

func LogEvery(n int, category, format string, args ...any) {
	if n <= 0 {
		n = 1
	}
	mu.Lock()
	key := category + format
	counters[key]++
	count := counters[key]
	mu.Unlock()

	if count%n == 0 {
		Log(category, format+" (every %d, count=%d)", append(args, n, count)...)
	}
}
