package conversion

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os/exec"
	"time"
)

// Format names a pandoc input reader.
type Format string

const (
	FormatDOCX     Format = "docx"
	FormatODT      Format = "odt"
	FormatRTF      Format = "rtf"
	FormatMarkdown Format = "markdown"
)

const defaultTimeout = 30 * time.Second

var ErrPandocUnavailable = errors.New("pandoc executable not found")

// Converter turns office documents into HTML by shelling out to pandoc.
type Converter struct {
	pandocPath string // empty when pandoc is not installed
	timeout    time.Duration
}

// NewConverter looks pandoc up on PATH. A missing binary is not an error: callers
// check Available and use their own readers instead.
func NewConverter() *Converter {
	path, err := exec.LookPath("pandoc")
	if err != nil {
		log.Printf("WARN (Converter): pandoc executable not found in PATH. Built-in document readers will be used.")
	} else {
		log.Printf("INFO (Converter): Found pandoc executable at: %s", path)
	}
	return &Converter{
		pandocPath: path,
		timeout:    defaultTimeout,
	}
}

// Available reports whether conversions can run.
func (c *Converter) Available() bool {
	return c != nil && c.pandocPath != ""
}

// ToHTML converts content in the given input format to an HTML fragment.
func (c *Converter) ToHTML(ctx context.Context, content []byte, from Format) ([]byte, error) {
	if !c.Available() {
		return nil, fmt.Errorf("cannot convert %s: %w", from, ErrPandocUnavailable)
	}
	switch from {
	case FormatDOCX, FormatODT, FormatRTF, FormatMarkdown:
	default:
		return nil, fmt.Errorf("unsupported format for HTML conversion: %s", from)
	}

	html, err := c.runPandoc(ctx, string(from), content)
	if err != nil {
		return nil, fmt.Errorf("pandoc conversion from %s failed: %w", from, err)
	}
	log.Printf("INFO (Converter): Converted %s to HTML using pandoc (%d bytes).", from, len(html))
	return html, nil
}

func (c *Converter) runPandoc(ctx context.Context, fromFormat string, input []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.pandocPath, "-f", fromFormat, "-t", "html")

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdin = bytes.NewReader(input)
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("pandoc execution timed out after %v: %w. Stderr: %s", c.timeout, ctx.Err(), stderrBuf.String())
		}
		return nil, fmt.Errorf("pandoc execution failed: %w. Stderr: %s", err, stderrBuf.String())
	}

	if stderr := stderrBuf.String(); stderr != "" {
		log.Printf("WARN (Converter): pandoc stderr output during %s to html conversion:\n%s", fromFormat, stderr)
	}
	return stdoutBuf.Bytes(), nil
}
