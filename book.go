package carteira

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"slices"
)

// InsufficientPositionError reports a sell whose quantity exceeds the shares
// currently held for the ticker. Selling a ticker that was never bought is
// the same anomaly with zero held shares. The offending transaction leaves
// the book untouched: a position never goes negative, and it is never
// silently clamped to zero either.
type InsufficientPositionError struct {
	Security  string
	Held      Quantity
	Requested Quantity
}

func (e *InsufficientPositionError) Error() string {
	return fmt.Sprintf("cannot sell %s shares of %s, only %s held", e.Requested, e.Security, e.Held)
}

// Position is the running state the book keeps per ticker. It is created on
// the first transaction for the ticker and lives for the whole fold.
type Position struct {
	Shares   Quantity
	AvgPrice Money
}

// Holding is one line of the final snapshot.
type Holding struct {
	Ticker   string
	Shares   Quantity
	AvgPrice Money
}

// Book maintains, per ticker, the current position and the moving-average
// acquisition cost. It is fed one transaction at a time, in chronological
// order; the average is order-dependent, so the caller must not reorder.
//
// Every buy re-bases the average over the combined share count:
//
//	avg' = (held*avg + qty*price) / (held + qty)
//
// A sell only reduces the share count. The average of the remaining shares
// is untouched, and when a position is fully liquidated the stale average is
// retained until the next buy rebases it to that buy's price (held is zero,
// so the formula reduces to avg' = price).
type Book struct {
	positions map[string]*Position
}

// NewBook creates an empty position book.
func NewBook() *Book {
	return &Book{positions: make(map[string]*Position)}
}

// Apply folds one transaction into the book. On error the book is left
// exactly as it was: the caller chooses whether to abort or to skip the
// transaction and keep folding (see Fold).
func (b *Book) Apply(tx Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}

	switch v := tx.(type) {
	case Buy:
		b.buy(v)
		return nil
	case Sell:
		return b.sell(v)
	default:
		return fmt.Errorf("unsupported transaction type: %T", tx)
	}
}

func (b *Book) buy(v Buy) {
	p, ok := b.positions[v.Security]
	if !ok {
		p = &Position{}
		b.positions[v.Security] = p
	}

	// Weighted mean of the existing position and the incoming shares.
	// With a zero position the stale average cancels out and the new
	// average is exactly the buy price.
	newShares := p.Shares.Add(v.Quantity)
	totalCost := p.AvgPrice.Mul(p.Shares).Add(v.Cost())
	p.AvgPrice = totalCost.Div(newShares)
	p.Shares = newShares
}

func (b *Book) sell(v Sell) error {
	p, ok := b.positions[v.Security]
	if !ok || p.Shares.LessThan(v.Quantity) {
		var held Quantity
		if ok {
			held = p.Shares
		}
		return &InsufficientPositionError{Security: v.Security, Held: held, Requested: v.Quantity}
	}
	p.Shares = p.Shares.Sub(v.Quantity)
	return nil
}

// Position returns the state for a ticker and whether the ticker was ever
// traded. The returned value is a copy.
func (b *Book) Position(ticker string) (Position, bool) {
	p, ok := b.positions[NormalizeTicker(ticker)]
	if !ok {
		return Position{}, false
	}
	return *p, true
}

// Positions iterates over every ticker ever traded, in lexical order,
// including fully liquidated ones.
func (b *Book) Positions() iter.Seq2[string, Position] {
	return func(yield func(string, Position) bool) {
		tickers := slices.Collect(maps.Keys(b.positions))
		slices.Sort(tickers)
		for _, ticker := range tickers {
			if !yield(ticker, *b.positions[ticker]) {
				return
			}
		}
	}
}

// Snapshot returns the final holdings in ticker lexical order. Fully
// liquidated positions are excluded: a closed position has no current
// holding to report, and its retained average is not a live cost basis.
func (b *Book) Snapshot() []Holding {
	holdings := make([]Holding, 0, len(b.positions))
	for ticker, p := range b.Positions() {
		if p.Shares.IsZero() {
			continue
		}
		holdings = append(holdings, Holding{Ticker: ticker, Shares: p.Shares, AvgPrice: p.AvgPrice})
	}
	return holdings
}

// Fold replays a whole ledger through a new book. Rejected transactions are
// skipped and reported, and the fold continues: one bad sell must not hide
// the rest of the wallet. The returned error joins one error per rejected
// transaction, each with the date and ticker of the offender.
func Fold(l *Ledger) (*Book, error) {
	book := NewBook()
	var errs error
	for _, tx := range l.Transactions(AcceptAll) {
		if err := book.Apply(tx); err != nil {
			errs = errors.Join(errs, fmt.Errorf("skipped %s %s on %s: %w", tx.What(), tx.Ticker(), tx.When(), err))
		}
	}
	return book, errs
}
