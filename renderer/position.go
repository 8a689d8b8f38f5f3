package renderer

import (
	"fmt"
	"strings"

	"github.com/carteira-cli/carteira"
)

// PositionMarkdown renders the final position report: one line per ticker
// still held, with the share count and the moving-average acquisition cost.
func PositionMarkdown(on carteira.Date, holdings []carteira.Holding) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Position on %s\n\n", on)

	if len(holdings) == 0 {
		fmt.Fprintln(&b, "No open position.")
		return b.String()
	}

	fmt.Fprintln(&b, "| Ticker | Shares | Average Price |")
	fmt.Fprintln(&b, "|:---|---:|---:|")
	for _, h := range holdings {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", h.Ticker, h.Shares, h.AvgPrice)
	}
	return b.String()
}

// ClosedMarkdown renders fully liquidated tickers. Their retained average is
// the basis of the last lot sold, not a live cost basis, and is flagged as
// such.
func ClosedMarkdown(book *carteira.Book) string {
	var b strings.Builder
	header := false
	for ticker, p := range book.Positions() {
		if !p.Shares.IsZero() {
			continue
		}
		if !header {
			fmt.Fprintf(&b, "\n## Closed positions\n\n")
			fmt.Fprintln(&b, "| Ticker | Shares | Last Average (stale) |")
			fmt.Fprintln(&b, "|:---|---:|---:|")
			header = true
		}
		fmt.Fprintf(&b, "| %s | 0 | %s |\n", ticker, p.AvgPrice)
	}
	return b.String()
}
