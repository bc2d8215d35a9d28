// Package snapshot captures a rasterized image of the live test panel
// for embedding into reports. Capture is best-effort by contract:
// failures yield absence, never an error, and the report simply omits
// the screenshot section.
package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// Renderer captures the test panel for one product. The boolean result
// reports presence; implementations must not return partial images.
type Renderer interface {
	Capture(ctx context.Context, productID int64) ([]byte, bool)
}

// NullRenderer always reports absence. Used when capture is disabled
// and in tests.
type NullRenderer struct{}

func (NullRenderer) Capture(ctx context.Context, productID int64) ([]byte, bool) {
	return nil, false
}

// ChromeRenderer renders the panel page in headless Chrome.
type ChromeRenderer struct {
	// PanelURL is a format string with one %d verb for the product id.
	PanelURL string
	Timeout  time.Duration
}

func NewChromeRenderer(panelURL string, timeout time.Duration) *ChromeRenderer {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &ChromeRenderer{PanelURL: panelURL, Timeout: timeout}
}

// Capture navigates to the panel page and screenshots the full
// viewport. Every failure mode (no browser binary, timeout, navigation
// error) is logged and reported as absence.
func (r *ChromeRenderer) Capture(ctx context.Context, productID int64) ([]byte, bool) {
	url := fmt.Sprintf(r.PanelURL, productID)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, chromedp.DefaultExecAllocatorOptions[:]...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()
	runCtx, cancelRun := context.WithTimeout(browserCtx, r.Timeout)
	defer cancelRun()

	var buf []byte
	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.FullScreenshot(&buf, 85),
	)
	if err != nil {
		zap.L().Warn("snapshot: capture failed, report will omit screenshot",
			zap.Int64("product_id", productID), zap.Error(err))
		return nil, false
	}
	if len(buf) == 0 {
		return nil, false
	}
	return buf, true
}
