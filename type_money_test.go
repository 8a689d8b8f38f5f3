package carteira

import "testing"

func TestMoney_StringRoundsAtPresentation(t *testing.T) {
	// 516.63 / 19 is a non-terminating decimal; it must only be rounded when
	// formatted, half-up at the currency's two decimals.
	average := USD(516.63).Div(Q(19))

	if got := average.Decimal().Round(2).String(); got != "27.19" {
		t.Errorf("rounded average = %s, want 27.19", got)
	}
	if got := average.String(); got != "$27.19" {
		t.Errorf("String() = %s, want $27.19", got)
	}

	// Half-up at the boundary.
	if got := USD(1.005).String(); got != "$1.01" {
		t.Errorf("String() = %s, want $1.01", got)
	}
}

func TestMoney_WeakCurrency(t *testing.T) {
	// The zero Money has no currency; the first addition sets it. This is
	// what lets a fresh position absorb the first buy's currency.
	var zero Money
	got := zero.Add(BRL(28.20))
	if got.Currency() != "BRL" {
		t.Errorf("currency = %q, want BRL", got.Currency())
	}
	if !got.Equal(BRL(28.20)) {
		t.Errorf("value = %s, want %s", got, BRL(28.20))
	}
}

func TestMoney_MulDiv(t *testing.T) {
	total := BRL(28.20).Mul(Q(10))
	if got := total.Decimal().String(); got != "282" {
		t.Errorf("28.20 * 10 = %s, want 282", got)
	}
	unit := total.Div(Q(10))
	if !unit.Equal(BRL(28.20)) {
		t.Errorf("282 / 10 = %s, want %s", unit, BRL(28.20))
	}
}
