package printing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const (
	defaultChromeTimeout = 30 * time.Second
	// footerReserveMM keeps the footer clear of the page body
	footerReserveMM = 10.0
	mmPerInch       = 25.4
)

// ChromedpConfig configures the Chrome renderer. RemoteURL is the devtools
// websocket of a shared browser; when empty a local browser is launched from
// ExecPath (or chromedp's lookup). NoSandbox is needed when running as root
// in a container.
type ChromedpConfig struct {
	DefaultTimeout time.Duration
	RemoteURL      string
	ExecPath       string
	NoSandbox      bool
	Scale          float64
	Logger         *zap.Logger
}

// ChromedpRenderer prints HTML through the Chrome DevTools Protocol. Each
// render opens its own tab on a shared allocator, so renders run in parallel.
type ChromedpRenderer struct {
	cfg         ChromedpConfig
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChromedpRenderer creates the renderer. No browser is started until the
// first render.
func NewChromedpRenderer(cfg *ChromedpConfig) (*ChromedpRenderer, error) {
	r := &ChromedpRenderer{}
	if cfg != nil {
		r.cfg = *cfg
	}
	if r.cfg.DefaultTimeout <= 0 {
		r.cfg.DefaultTimeout = defaultChromeTimeout
	}
	if r.cfg.Scale <= 0 {
		r.cfg.Scale = 1
	}
	r.logger = r.cfg.Logger
	if r.logger == nil {
		r.logger = zap.NewNop()
	}

	if r.cfg.RemoteURL != "" {
		r.allocCtx, r.allocCancel = chromedp.NewRemoteAllocator(context.Background(), r.cfg.RemoteURL)
	} else {
		r.allocCtx, r.allocCancel = chromedp.NewExecAllocator(context.Background(), r.execOptions()...)
	}
	return r, nil
}

func (r *ChromedpRenderer) execOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if r.cfg.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	if r.cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(r.cfg.ExecPath))
	}
	return opts
}

// Render prints the request to PDF
func (r *ChromedpRenderer) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = r.cfg.DefaultTimeout
	}
	started := time.Now()

	tabCtx, closeTab := chromedp.NewContext(r.allocCtx, chromedp.WithLogf(r.debugf))
	defer closeTab()
	tabCtx, cancel := context.WithTimeout(tabCtx, timeout)
	defer cancel()
	// the tab dies with the request
	defer context.AfterFunc(ctx, cancel)()

	var pdf []byte
	err := chromedp.Run(tabCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, req.document()).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) (err error) {
			pdf, _, err = r.printParams(req).Do(ctx)
			return err
		}),
	)
	switch {
	case err == nil && len(pdf) == 0:
		return nil, NewRenderError(ErrCodeRenderFailed, "browser returned an empty PDF", nil)
	case err == nil:
	case errors.Is(tabCtx.Err(), context.DeadlineExceeded):
		return nil, NewRenderError(ErrCodeRenderTimeout, fmt.Sprintf("rendering exceeded %v", timeout), err)
	case ctx.Err() != nil:
		return nil, NewRenderError(ErrCodeRenderTimeout, "rendering cancelled", ctx.Err())
	default:
		r.logger.Error("chrome print failed", zap.String("title", req.Title), zap.Error(err))
		return nil, NewRenderError(ErrCodeRenderFailed, "chrome print failed", err)
	}

	result := &RenderResult{
		PDFData:        pdf,
		PageCount:      countPages(pdf),
		RenderDuration: time.Since(started),
	}
	r.logger.Debug("pdf rendered",
		zap.String("title", req.Title),
		zap.Int("bytes", len(pdf)),
		zap.Int("pages", result.PageCount),
		zap.Duration("duration", result.RenderDuration))
	return result, nil
}

// printParams converts the request's page setup into Chrome's inch-based
// print options
func (r *ChromedpRenderer) printParams(req *RenderRequest) *page.PrintToPDFParams {
	width, height := req.Paper.Dimensions()
	bottom := req.Margins.Bottom
	if req.FooterHTML != "" && bottom < footerReserveMM {
		bottom = footerReserveMM
	}

	params := page.PrintToPDF().
		WithPrintBackground(true).
		WithPaperWidth(inches(width)).
		WithPaperHeight(inches(height)).
		WithMarginTop(inches(req.Margins.Top)).
		WithMarginRight(inches(req.Margins.Right)).
		WithMarginBottom(inches(bottom)).
		WithMarginLeft(inches(req.Margins.Left)).
		WithScale(r.cfg.Scale).
		WithLandscape(req.Landscape)
	if req.FooterHTML != "" {
		params = params.
			WithDisplayHeaderFooter(true).
			WithHeaderTemplate("<span></span>").
			WithFooterTemplate(req.FooterHTML)
	}
	return params
}

func (r *ChromedpRenderer) debugf(format string, args ...any) {
	r.logger.Debug(fmt.Sprintf(format, args...))
}

// Close shuts the allocator down, killing a locally launched browser
func (r *ChromedpRenderer) Close() error {
	if r.allocCancel != nil {
		r.allocCancel()
	}
	return nil
}

// countPages counts /Type /Page objects, never reporting fewer than one
func countPages(pdf []byte) int {
	n := bytes.Count(pdf, []byte("/Type /Page")) - bytes.Count(pdf, []byte("/Type /Pages"))
	return max(n, 1)
}

func inches(mm float64) float64 {
	return mm / mmPerInch
}

var _ PDFRenderer = (*ChromedpRenderer)(nil)
