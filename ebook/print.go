package ebook

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/exec"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

var ErrPrintUnavailable = errors.New("print facility unavailable")

// Printer turns a self-contained HTML document into PDF bytes.
type Printer interface {
	PrintPDF(ctx context.Context, html []byte, paper PaperSize) ([]byte, error)
}

var chromeCandidates = []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser", "headless-shell"}

// ChromePrinter prints through a headless Chrome started per job.
type ChromePrinter struct {
	execPath string
	timeout  time.Duration
}

// NewChromePrinter resolves the browser binary. An empty execPath searches PATH;
// when nothing is found every PrintPDF call returns ErrPrintUnavailable.
func NewChromePrinter(execPath string, timeout time.Duration) *ChromePrinter {
	if execPath == "" {
		for _, name := range chromeCandidates {
			if p, err := exec.LookPath(name); err == nil {
				execPath = p
				break
			}
		}
	}
	if execPath == "" {
		log.Printf("WARN (ChromePrinter): No Chrome/Chromium executable found. PDF exports will fall back to printable HTML.")
	} else {
		log.Printf("INFO (ChromePrinter): Using browser at %s", execPath)
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &ChromePrinter{execPath: execPath, timeout: timeout}
}

func (cp *ChromePrinter) PrintPDF(ctx context.Context, html []byte, paper PaperSize) ([]byte, error) {
	if cp == nil || cp.execPath == "" {
		return nil, ErrPrintUnavailable
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(cp.execPath),
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("no-sandbox", true),
	)

	ctx, cancel := context.WithTimeout(ctx, cp.timeout)
	defer cancel()
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return fmt.Errorf("failed to get frame tree: %w", err)
			}
			return page.SetDocumentContent(frameTree.Frame.ID, string(html)).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				WithPaperWidth(paper.Width).
				WithPaperHeight(paper.Height).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("chromedp print failed: %w", err)
	}
	return pdf, nil
}
