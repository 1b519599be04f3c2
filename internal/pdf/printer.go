package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"mailbox-directory-api/internal/models"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"
)

// A4 paper and margins, in inches.
const (
	paperWidthIn   = 8.27
	paperHeightIn  = 11.69
	marginTopIn    = 0.4
	marginBottomIn = 0.4
	marginLeftIn   = 0.2
	marginRightIn  = 0.2
)

// imagesSettled holds until the document has loaded and every embedded image
// has decoded, so the print snapshot never captures half-loaded maps.
const imagesSettled = `document.readyState === 'complete' && Array.from(document.images).every(function(img) { return img.complete; })`

// Printer converts an HTML document into PDF bytes through a headless Chrome
// print operation. Every call launches its own isolated browser process and
// releases it when done, so concurrent exports never share an instance.
type Printer struct {
	timeout   time.Duration
	chromeBin string
	log       zerolog.Logger

	// run is swapped out in tests; chromedp.Run otherwise.
	run func(ctx context.Context, actions ...chromedp.Action) error
}

// NewPrinter creates a printer with the given per-print deadline. chromeBin
// may be empty, in which case common install locations are probed.
func NewPrinter(timeout time.Duration, chromeBin string, log zerolog.Logger) *Printer {
	return &Printer{
		timeout:   timeout,
		chromeBin: chromeBin,
		log:       log,
		run:       chromedp.Run,
	}
}

// PrintHTML loads the HTML string into a fresh browser context, waits for the
// page to settle, and prints it to an A4 PDF with backgrounds enabled. The
// browser is released on both success and failure paths.
func (p *Printer) PrintHTML(ctx context.Context, html string) ([]byte, error) {
	params := page.PrintToPDF().
		WithPrintBackground(true).
		WithPaperWidth(paperWidthIn).
		WithPaperHeight(paperHeightIn).
		WithMarginTop(marginTopIn).
		WithMarginBottom(marginBottomIn).
		WithMarginLeft(marginLeftIn).
		WithMarginRight(marginRightIn)
	return p.print(ctx, html, params)
}

// PrintHTMLSized prints to a single page of the given explicit size and
// uniform margin (all in inches) instead of paginated A4. Used for the
// map-poster exports, where the page is sized to the artwork.
func (p *Printer) PrintHTMLSized(ctx context.Context, html string, widthIn, heightIn, marginIn float64) ([]byte, error) {
	params := page.PrintToPDF().
		WithPrintBackground(true).
		WithPaperWidth(widthIn).
		WithPaperHeight(heightIn).
		WithMarginTop(marginIn).
		WithMarginBottom(marginIn).
		WithMarginLeft(marginIn).
		WithMarginRight(marginIn).
		WithPageRanges("1")
	return p.print(ctx, html, params)
}

func (p *Printer) print(ctx context.Context, html string, params *page.PrintToPDFParams) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if bin := p.findChromeBinary(); bin != "" {
		opts = append(opts, chromedp.ExecPath(bin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	printCtx, cancelTimeout := context.WithTimeout(browserCtx, p.timeout)
	defer cancelTimeout()

	var (
		pdfBuf  []byte
		settled bool
	)
	err := p.run(printCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return fmt.Errorf("get frame tree: %w", err)
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.Poll(imagesSettled, &settled, chromedp.WithPollingInterval(100*time.Millisecond)),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := params.Do(ctx)
			if err != nil {
				return fmt.Errorf("print to pdf: %w", err)
			}
			pdfBuf = buf
			return nil
		}),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("pdf: print after %s: %w", p.timeout, models.ErrRenderTimeout)
		}
		return nil, fmt.Errorf("pdf: headless print: %w", err)
	}
	if len(pdfBuf) == 0 {
		return nil, fmt.Errorf("pdf: headless print produced no output")
	}
	p.log.Debug().Int("bytes", len(pdfBuf)).Msg("pdf rendered")
	return pdfBuf, nil
}

// findChromeBinary returns the configured Chrome binary, or probes PATH and
// common install locations.
func (p *Printer) findChromeBinary() string {
	if p.chromeBin != "" {
		return p.chromeBin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
