package output

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Sink is a line-oriented diagnostic log, such as a build or scan log
type Sink interface {
	Println(text string)
	Printf(format string, args ...interface{})
}

// BuildLog is a Sink that writes lines to an io.Writer and optionally mirrors
// them to the log file of a Splog
type BuildLog struct {
	mu     sync.Mutex
	writer io.Writer
	splog  *Splog
}

// NewBuildLog creates a BuildLog writing to w. splog may be nil.
func NewBuildLog(w io.Writer, splog *Splog) *BuildLog {
	return &BuildLog{writer: w, splog: splog}
}

// Println writes text followed by a newline
func (l *BuildLog) Println(text string) {
	l.write(text)
}

// Printf formats according to a format specifier. A trailing newline is
// added if the result does not end with one.
func (l *BuildLog) Printf(format string, args ...interface{}) {
	l.write(strings.TrimSuffix(fmt.Sprintf(format, args...), "\n"))
}

func (l *BuildLog) write(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = fmt.Fprintln(l.writer, line)
	if l.splog != nil {
		l.splog.FileOnly("%s", line)
	}
}

// Recorder is a Sink that keeps every line in memory
type Recorder struct {
	mu    sync.Mutex
	lines []string
}

// NewRecorder creates an empty Recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Println records text
func (r *Recorder) Println(text string) {
	r.record(text)
}

// Printf records the formatted text without its trailing newline
func (r *Recorder) Printf(format string, args ...interface{}) {
	r.record(strings.TrimSuffix(fmt.Sprintf(format, args...), "\n"))
}

func (r *Recorder) record(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, line)
}

// Lines returns a copy of the recorded lines
func (r *Recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

// String returns the recorded lines joined by newlines
func (r *Recorder) String() string {
	return strings.Join(r.Lines(), "\n")
}

// Discard is a Sink that drops everything
var Discard Sink = discard{}

type discard struct{}

func (discard) Println(string) {}

func (discard) Printf(string, ...interface{}) {}
