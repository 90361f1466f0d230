package cmd

import (
	"bytes"
	"io"
	"sync"

	"github.com/fatih/color"
)

// consoleWriter syncs writes to stdout and stderr and, on a terminal, clears
// the rest of the line before each newline.
type consoleWriter struct {
	io.Writer
	isTTY bool
	mutex *sync.Mutex
}

func (w *consoleWriter) Write(p []byte) (n int, err error) {
	origLen := len(p)
	if w.isTTY {
		p = bytes.ReplaceAll(p, []byte{'\n'}, []byte{'\x1b', '[', '0', 'K', '\n'})
	}

	w.mutex.Lock()
	n, err = w.Writer.Write(p)
	w.mutex.Unlock()

	if err != nil && n < origLen {
		return n, err
	}
	return origLen, err
}

// theme colors the parts of the command output.
type theme struct {
	key, source, muted *color.Color
}

func newTheme(colorize bool) *theme {
	t := &theme{
		key:    color.New(color.FgCyan),
		source: color.New(color.FgGreen),
		muted:  color.New(color.Faint),
	}
	for _, c := range []*color.Color{t.key, t.source, t.muted} {
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return t
}
