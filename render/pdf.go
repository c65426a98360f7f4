package render

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	cdppage "github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/rotisserie/eris"

	"earring-market/storage"
	"earring-market/utils"
)

// ErrNoChrome is returned when no Chrome/Chromium binary can be located.
var ErrNoChrome = eris.New("no Chrome/Chromium binary found")

// PDFExporter prints a rendered dashboard to PDF through headless Chrome.
type PDFExporter struct {
	chromeBin string
	timeout   time.Duration
	logger    *utils.Logger
}

func NewPDFExporter(chromeBin string, logger *utils.Logger) *PDFExporter {
	return &PDFExporter{chromeBin: chromeBin, timeout: 60 * time.Second, logger: logger}
}

// Export loads htmlPath as a file:// page and writes the printed PDF through w.
func (e *PDFExporter) Export(ctx context.Context, htmlPath string, w storage.DocumentWriter) error {
	chromeBin := findChromeBinary(e.chromeBin)
	if chromeBin == "" {
		return ErrNoChrome
	}
	e.logger.Info("[pdf] Using Chrome binary: %s", chromeBin)

	abs, err := filepath.Abs(htmlPath)
	if err != nil {
		return eris.Wrapf(err, "resolve %s", htmlPath)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.ExecPath(chromeBin),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	runCtx, cancelRun := context.WithTimeout(browserCtx, e.timeout)
	defer cancelRun()

	var pdf []byte
	err = chromedp.Run(runCtx,
		chromedp.Navigate("file://"+filepath.ToSlash(abs)),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(2*time.Second),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := cdppage.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdf = data
			return nil
		}),
	)
	if err != nil {
		return eris.Wrap(err, "print dashboard to pdf")
	}

	if err := w.WriteDocument(pdf); err != nil {
		return eris.Wrap(err, "write pdf")
	}
	e.logger.Info("[pdf] Wrote %d bytes", len(pdf))
	return nil
}

// findChromeBinary locates Chrome/Chromium binary, preferring an explicit path.
func findChromeBinary(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
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
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
