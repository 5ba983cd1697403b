package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

const bannerWidth = 50

// Console prints human-readable progress to a terminal: banners around
// section titles, step trackers and colored blocks of model output. A nil
// *Console is valid and prints nothing.
type Console struct {
	out io.Writer
}

// NewConsole creates a Console writing to w (stdout when nil).
func NewConsole(w io.Writer) *Console {
	if w == nil {
		w = os.Stdout
	}
	return &Console{out: w}
}

// Banner prints message framed by two cyan rules.
func (c *Console) Banner(message string) {
	if c == nil {
		return
	}

	rule := strings.Repeat("=", bannerWidth)
	cyan := color.New(color.FgCyan, color.Bold)

	cyan.Fprintf(c.out, "\n%s\n", rule)
	color.New(color.FgMagenta).Fprintln(c.out, message)
	cyan.Fprintf(c.out, "%s\n\n", rule)
}

// Step prints a "STEP i/n" banner for the zero-based step index.
func (c *Console) Step(step, total int) {
	c.Banner(fmt.Sprintf("STEP %d/%d", step+1, total))
}

// Print writes a titled block of text in the given color. An empty title
// prints only the text.
func (c *Console) Print(attr color.Attribute, title, text string) {
	if c == nil {
		return
	}

	p := color.New(attr)
	if title != "" {
		p.Fprintf(c.out, "\n%s\n\n", title)
	}
	p.Fprintln(c.out, text)
}
