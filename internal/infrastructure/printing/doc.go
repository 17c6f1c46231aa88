// Package printing renders documents to PDF. An html/template produces the
// page and a headless Chrome driven through chromedp prints it.
//
// Example usage:
//
//	renderer, err := NewChromedpRenderer(&ChromedpConfig{RemoteURL: "ws://chrome:9222"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer renderer.Close()
//
//	printer, err := NewInvoicePrinter(renderer, PaperA4, logger)
//	pdf, err := printer.RenderInvoice(ctx, doc)
package printing
