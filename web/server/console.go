package server

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/df07/go-mirror-raytracer/pkg/core"
)

// WebLogger implements core.Logger by tagging each message with the
// render it belongs to, so concurrent renders stay distinguishable in
// the server log.
type WebLogger struct {
	renderID string
	out      io.Writer
	mu       sync.Mutex
	lines    []string
}

// NewWebLogger creates a new web logger for a specific render
func NewWebLogger(renderID string, out io.Writer) *WebLogger {
	return &WebLogger{
		renderID: renderID,
		out:      out,
	}
}

var _ core.Logger = (*WebLogger)(nil)

// Printf implements core.Logger interface
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	message := strings.TrimRight(fmt.Sprintf(format, args...), "\n")

	wl.mu.Lock()
	defer wl.mu.Unlock()
	wl.lines = append(wl.lines, message)
	if wl.out != nil {
		fmt.Fprintf(wl.out, "%s [render %s] %s\n", time.Now().Format(time.RFC3339), wl.renderID, message)
	}
}

// Lines returns the messages logged so far, without the render tag
func (wl *WebLogger) Lines() []string {
	wl.mu.Lock()
	defer wl.mu.Unlock()
	return append([]string(nil), wl.lines...)
}
