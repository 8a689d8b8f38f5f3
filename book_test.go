package carteira

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

// avg returns the average price of a ticker rounded to 2 decimals, the
// precision at which it is reported.
func avg(t *testing.T, b *Book, ticker string) string {
	t.Helper()
	p, ok := b.Position(ticker)
	if !ok {
		t.Fatalf("no position for %s", ticker)
	}
	return p.AvgPrice.Decimal().Round(2).String()
}

func shares(t *testing.T, b *Book, ticker string) string {
	t.Helper()
	p, ok := b.Position(ticker)
	if !ok {
		t.Fatalf("no position for %s", ticker)
	}
	return p.Shares.String()
}

func mustApply(t *testing.T, b *Book, txs ...Transaction) {
	t.Helper()
	for _, tx := range txs {
		if err := b.Apply(tx); err != nil {
			t.Fatalf("Apply(%s %s on %s) error = %v", tx.What(), tx.Ticker(), tx.When(), err)
		}
	}
}

func TestBook_SingleBuy(t *testing.T) {
	book := NewBook()
	mustApply(t, book, NewBuy(on("2024-01-10"), "", "PETR4", Q(10), BRL(28.20)))

	if got := shares(t, book, "PETR4"); got != "10" {
		t.Errorf("shares = %s, want 10", got)
	}
	if got := avg(t, book, "PETR4"); got != "28.2" {
		t.Errorf("average = %s, want 28.2", got)
	}
}

func TestBook_TwoBuysWeightedAverage(t *testing.T) {
	book := NewBook()
	mustApply(t, book,
		NewBuy(on("2024-01-10"), "", "PETR4", Q(10), BRL(28.20)),
		NewBuy(on("2024-02-15"), "", "PETR4", Q(9), BRL(26.07)),
	)

	if got := shares(t, book, "PETR4"); got != "19" {
		t.Errorf("shares = %s, want 19", got)
	}
	// (10*28.20 + 9*26.07) / 19 = 516.63 / 19
	want := decimal.NewFromFloat(516.63).Div(decimal.NewFromInt(19)).Round(2).String()
	if got := avg(t, book, "PETR4"); got != want {
		t.Errorf("average = %s, want %s", got, want)
	}
}

func TestBook_SellPreservesAverage(t *testing.T) {
	book := NewBook()
	mustApply(t, book,
		NewBuy(on("2024-01-10"), "", "PETR4", Q(10), BRL(28.20)),
		NewBuy(on("2024-02-15"), "", "PETR4", Q(9), BRL(26.07)),
	)
	before := avg(t, book, "PETR4")

	mustApply(t, book, NewSell(on("2024-03-01"), "", "PETR4", Q(5), BRL(26.85)))

	if got := shares(t, book, "PETR4"); got != "14" {
		t.Errorf("shares = %s, want 14", got)
	}
	if got := avg(t, book, "PETR4"); got != before {
		t.Errorf("average changed on sell: got %s, want %s", got, before)
	}
}

func TestBook_FullLiquidationRetainsAverage(t *testing.T) {
	book := NewBook()
	mustApply(t, book,
		NewBuy(on("2024-01-10"), "", "PETR4", Q(19), BRL(27.00)),
		NewSell(on("2024-03-01"), "", "PETR4", Q(19), BRL(26.85)),
	)

	p, ok := book.Position("PETR4")
	if !ok {
		t.Fatal("position should survive full liquidation")
	}
	if !p.Shares.IsZero() {
		t.Errorf("shares = %s, want 0", p.Shares)
	}
	// The stale average is retained, not cleared.
	if got := avg(t, book, "PETR4"); got != "27" {
		t.Errorf("retained average = %s, want 27", got)
	}
}

func TestBook_BuyAfterLiquidationResetsBasis(t *testing.T) {
	book := NewBook()
	mustApply(t, book,
		NewBuy(on("2024-01-10"), "", "PETR4", Q(19), BRL(27.00)),
		NewSell(on("2024-03-01"), "", "PETR4", Q(19), BRL(26.85)),
		NewBuy(on("2024-04-01"), "", "PETR4", Q(7), BRL(31.50)),
	)

	if got := shares(t, book, "PETR4"); got != "7" {
		t.Errorf("shares = %s, want 7", got)
	}
	// With zero held shares the weighted mean reduces to the buy price,
	// with no contamination from the earlier lots.
	if got := avg(t, book, "PETR4"); got != "31.5" {
		t.Errorf("average = %s, want 31.5", got)
	}
}

func TestBook_OverSellIsRejected(t *testing.T) {
	book := NewBook()
	mustApply(t, book, NewBuy(on("2024-01-10"), "", "PETR4", Q(4), BRL(28.20)))

	err := book.Apply(NewSell(on("2024-02-01"), "", "PETR4", Q(5), BRL(30.00)))

	var ipe *InsufficientPositionError
	if !errors.As(err, &ipe) {
		t.Fatalf("Apply() error = %v, want *InsufficientPositionError", err)
	}
	if ipe.Security != "PETR4" || ipe.Held.String() != "4" || ipe.Requested.String() != "5" {
		t.Errorf("error detail = %+v, want PETR4 held 4 requested 5", ipe)
	}

	// The book must be exactly as before the rejected sell.
	if got := shares(t, book, "PETR4"); got != "4" {
		t.Errorf("shares = %s, want 4", got)
	}
	if got := avg(t, book, "PETR4"); got != "28.2" {
		t.Errorf("average = %s, want 28.2", got)
	}
}

func TestBook_SellUnseenTickerIsRejected(t *testing.T) {
	book := NewBook()

	err := book.Apply(NewSell(on("2024-02-01"), "", "VALE3", Q(1), BRL(60.00)))

	var ipe *InsufficientPositionError
	if !errors.As(err, &ipe) {
		t.Fatalf("Apply() error = %v, want *InsufficientPositionError", err)
	}
	if !ipe.Held.IsZero() {
		t.Errorf("held = %s, want 0", ipe.Held)
	}
	// A rejected sell on an unseen ticker must not create state.
	if _, ok := book.Position("VALE3"); ok {
		t.Error("rejected sell created a position")
	}
}

func TestBook_InvalidQuantityIsRejected(t *testing.T) {
	book := NewBook()

	for _, q := range []Quantity{Q(0), Q(-3)} {
		err := book.Apply(NewBuy(on("2024-01-10"), "", "PETR4", q, BRL(28.20)))
		if !errors.Is(err, ErrInvalidQuantity) {
			t.Errorf("Apply(buy %s shares) error = %v, want ErrInvalidQuantity", q, err)
		}
	}
	if _, ok := book.Position("PETR4"); ok {
		t.Error("rejected buy created a position")
	}
}

func TestBook_OrderSensitivity(t *testing.T) {
	// The fold is not commutative: the same three transactions in a
	// different order end with the same share count but a different average.
	early := NewBook()
	mustApply(t, early,
		NewBuy(on("2024-01-10"), "", "PETR4", Q(10), BRL(10.00)),
		NewSell(on("2024-01-11"), "", "PETR4", Q(10), BRL(12.00)),
		NewBuy(on("2024-01-12"), "", "PETR4", Q(10), BRL(20.00)),
	)

	late := NewBook()
	mustApply(t, late,
		NewBuy(on("2024-01-10"), "", "PETR4", Q(10), BRL(10.00)),
		NewBuy(on("2024-01-11"), "", "PETR4", Q(10), BRL(20.00)),
		NewSell(on("2024-01-12"), "", "PETR4", Q(10), BRL(12.00)),
	)

	if got := shares(t, early, "PETR4"); got != "10" {
		t.Fatalf("shares = %s, want 10", got)
	}
	if got := shares(t, late, "PETR4"); got != "10" {
		t.Fatalf("shares = %s, want 10", got)
	}
	if avg(t, early, "PETR4") == avg(t, late, "PETR4") {
		t.Errorf("averages should differ by order, both are %s", avg(t, early, "PETR4"))
	}
	if got := avg(t, early, "PETR4"); got != "20" {
		t.Errorf("average = %s, want 20", got)
	}
	if got := avg(t, late, "PETR4"); got != "15" {
		t.Errorf("average = %s, want 15", got)
	}
}

func TestBook_MultiTickerIsolation(t *testing.T) {
	book := NewBook()
	mustApply(t, book,
		NewBuy(on("2024-01-10"), "", "PETR4", Q(10), BRL(28.20)),
		NewBuy(on("2024-01-11"), "", "VALE3", Q(100), BRL(61.50)),
		NewSell(on("2024-02-01"), "", "VALE3", Q(40), BRL(65.00)),
	)

	if got := shares(t, book, "PETR4"); got != "10" {
		t.Errorf("PETR4 shares = %s, want 10", got)
	}
	if got := avg(t, book, "PETR4"); got != "28.2" {
		t.Errorf("PETR4 average = %s, want 28.2", got)
	}
	if got := shares(t, book, "VALE3"); got != "60" {
		t.Errorf("VALE3 shares = %s, want 60", got)
	}
	if got := avg(t, book, "VALE3"); got != "61.5" {
		t.Errorf("VALE3 average = %s, want 61.5", got)
	}
}

func TestBook_SnapshotExcludesClosedPositions(t *testing.T) {
	book := NewBook()
	mustApply(t, book,
		NewBuy(on("2024-01-10"), "", "VALE3", Q(5), BRL(61.50)),
		NewBuy(on("2024-01-11"), "", "PETR4", Q(10), BRL(28.20)),
		NewBuy(on("2024-01-12"), "", "ITUB4", Q(20), BRL(25.00)),
		NewSell(on("2024-02-01"), "", "ITUB4", Q(20), BRL(27.00)),
	)

	snapshot := book.Snapshot()
	if len(snapshot) != 2 {
		t.Fatalf("snapshot has %d holdings, want 2", len(snapshot))
	}
	// Lexical ticker order, whatever the insertion order was.
	if snapshot[0].Ticker != "PETR4" || snapshot[1].Ticker != "VALE3" {
		t.Errorf("snapshot order = %s, %s, want PETR4, VALE3", snapshot[0].Ticker, snapshot[1].Ticker)
	}

	// The closed ticker is still visible through Positions.
	var all []string
	for ticker := range book.Positions() {
		all = append(all, ticker)
	}
	if len(all) != 3 || all[0] != "ITUB4" {
		t.Errorf("Positions() = %v, want ITUB4 first of 3", all)
	}
}

func TestFold_SkipsAndReports(t *testing.T) {
	ledger := NewLedger()
	ledger.Append(
		NewBuy(on("2024-01-10"), "", "PETR4", Q(10), BRL(28.20)),
		NewSell(on("2024-02-01"), "", "PETR4", Q(15), BRL(30.00)), // over-sell, skipped
		NewSell(on("2024-03-01"), "", "PETR4", Q(4), BRL(30.00)),  // still applied
	)

	book, errs := Fold(ledger)
	if errs == nil {
		t.Fatal("Fold() error = nil, want a reported over-sell")
	}
	var ipe *InsufficientPositionError
	if !errors.As(errs, &ipe) {
		t.Errorf("Fold() error = %v, want to wrap *InsufficientPositionError", errs)
	}

	// The fold continued past the rejected transaction.
	if got := shares(t, book, "PETR4"); got != "6" {
		t.Errorf("shares = %s, want 6", got)
	}
}
