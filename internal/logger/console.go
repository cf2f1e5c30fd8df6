// Package logger provides the leveled console logger used for pipeline
// progress output. Messages are timestamped and color is enabled only when
// writing to a real terminal.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Log level constants for filtering.
const (
	levelTrace = iota
	levelDebug
	levelInfo
	levelWarn
	levelError
)

// Console logs timestamped, level-filtered messages to a writer. It is safe
// for concurrent use. If writer is nil, messages are discarded.
type Console struct {
	writer io.Writer
	level  int
	mutex  sync.Mutex
	color  bool
}

// NewConsole creates a Console writing to w at the given minimum level.
// Valid levels: trace, debug, info, warn, error (case-insensitive); empty or
// unknown levels default to info. Color is enabled only for TTY stdout or
// stderr.
func NewConsole(w io.Writer, level string) *Console {
	return &Console{
		writer: w,
		level:  parseLevel(level),
		color:  writerIsTerminal(w),
	}
}

// writerIsTerminal reports whether w is a terminal stdout/stderr. The color
// library's NO_COLOR handling is respected on top of TTY detection.
func writerIsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || (f != os.Stdout && f != os.Stderr) {
		return false
	}
	if color.NoColor {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// parseLevel converts a level name to its numeric value, defaulting to info.
func parseLevel(level string) int {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

// log writes one timestamped line if the message level passes the filter.
func (c *Console) log(msgLevel int, prefix string, colorize func(format string, a ...interface{}) string, format string, args ...interface{}) {
	if c.writer == nil || msgLevel < c.level {
		return
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()

	ts := time.Now().Format("15:04:05")
	msg := fmt.Sprintf(format, args...)
	if c.color && colorize != nil {
		fmt.Fprintf(c.writer, "[%s] %s%s\n", ts, colorize("%s", prefix), msg)
	} else {
		fmt.Fprintf(c.writer, "[%s] %s%s\n", ts, prefix, msg)
	}
}

// Tracef logs at trace level.
func (c *Console) Tracef(format string, args ...interface{}) {
	c.log(levelTrace, "", nil, format, args...)
}

// Debugf logs at debug level.
func (c *Console) Debugf(format string, args ...interface{}) {
	c.log(levelDebug, "", nil, format, args...)
}

// Infof logs at info level.
func (c *Console) Infof(format string, args ...interface{}) {
	c.log(levelInfo, "", nil, format, args...)
}

// Successf logs at info level with a green checkmark prefix.
func (c *Console) Successf(format string, args ...interface{}) {
	c.log(levelInfo, "✓ ", color.GreenString, format, args...)
}

// Warnf logs at warn level with a yellow prefix.
func (c *Console) Warnf(format string, args ...interface{}) {
	c.log(levelWarn, "⚠ ", color.YellowString, format, args...)
}

// Errorf logs at error level with a red prefix.
func (c *Console) Errorf(format string, args ...interface{}) {
	c.log(levelError, "✗ ", color.RedString, format, args...)
}
