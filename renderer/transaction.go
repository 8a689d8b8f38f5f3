package renderer

import (
	"fmt"
	"strings"

	"github.com/carteira-cli/carteira"
)

// Transaction renders a transaction to a string.
func Transaction(tx carteira.Transaction) string {
	switch v := tx.(type) {
	case carteira.Buy:
		return fmt.Sprintf("Bought %s of %s at %s", v.Quantity, v.Security, v.Price)
	case carteira.Sell:
		return fmt.Sprintf("Sold %s of %s at %s", v.Quantity, v.Security, v.Price)
	default:
		return string(tx.What())
	}
}

// Transactions renders a chronological transaction log.
func Transactions(txs []carteira.Transaction) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Transactions\n\n")
	for _, tx := range txs {
		fmt.Fprintf(&b, "- %s: %s\n", tx.When(), Transaction(tx))
	}
	return b.String()
}
