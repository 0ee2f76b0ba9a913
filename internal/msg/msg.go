package msg

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

// Diagnostics never go to stdout, which carries the generated script.
var (
	mu      sync.RWMutex
	out     io.Writer = os.Stderr
	verbose bool
)

// SetOutput redirects diagnostics, mostly for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

// Writer returns a writer that serializes writes with the diagnostics, so
// clone progress from concurrent loads does not race with log lines.
func Writer() io.Writer { return lockedWriter{} }

type lockedWriter struct{}

func (lockedWriter) Write(p []byte) (int, error) {
	mu.Lock()
	defer mu.Unlock()
	return out.Write(p)
}

func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// emit writes one whole line so lines from concurrent callers never mix.
func emit(level, format string, a ...any) {
	line := level + ": " + fmt.Sprintf(format, a...) + "\n"
	mu.Lock()
	defer mu.Unlock()
	io.WriteString(out, line)
}

func Error(format string, a ...any) {
	emit(color.HiRedString("error"), format, a...)
}

func Warn(format string, a ...any) {
	emit(color.YellowString("warn"), format, a...)
}

func Info(format string, a ...any) {
	emit(color.HiGreenString("info"), format, a...)
}

// Debug prints only in verbose mode.
func Debug(format string, a ...any) {
	if !IsVerbose() {
		return
	}
	emit(color.HiBlackString("debug"), format, a...)
}

// IndentWriter prefixes every line written through it with Indent.
type IndentWriter struct {
	Indent    string
	W         io.Writer
	didIndent bool
}

func (w *IndentWriter) Write(p []byte) (n int, err error) {
	buf := make([]byte, 0, len(p)+len(w.Indent))
	for _, c := range p {
		if !w.didIndent {
			buf = append(buf, w.Indent...)
			w.didIndent = true
		}
		buf = append(buf, c)
		if c == '\n' || c == '\r' {
			w.didIndent = false
		}
	}
	if _, err := w.W.Write(buf); err != nil {
		return 0, err
	}
	return len(p), nil
}
