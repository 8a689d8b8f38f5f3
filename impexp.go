package carteira

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"
)

// This file handles the broker statement import format.
//
// The raw statement is a headerless CSV, one trade per line:
//
//	date (DD/MM/YYYY HH:MM:SS), ticker, action (B|S), shares, price
//
// Import normalizes every record (canonical ticker, closed buy/sell action,
// validated share count and price), drops the time of day and returns a
// chronologically sorted ledger. Same-day trades keep their statement order.

// DefaultCurrency is the currency assumed for statement prices, which carry
// no currency of their own.
const DefaultCurrency = "BRL"

// ImportTransactions reads a broker CSV statement from 'r' and converts it
// into a ledger of well-typed buy and sell transactions.
func ImportTransactions(r io.Reader, currency string) (*Ledger, error) {
	if currency == "" {
		currency = DefaultCurrency
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 5
	reader.TrimLeadingSpace = true

	ledger := NewLedger()
	for line := 1; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("cannot read statement line %d: %w", line, err)
		}

		tx, err := parseStatementRecord(record, currency)
		if err != nil {
			return nil, fmt.Errorf("invalid statement line %d %q: %w", line, record, err)
		}
		ledger.Append(tx)
	}
	return ledger, nil
}

// parseStatementRecord converts one raw CSV record into a transaction.
func parseStatementRecord(record []string, currency string) (Transaction, error) {
	day, err := ParseRawDatetime(record[0])
	if err != nil {
		return nil, err
	}

	ticker := NormalizeTicker(record[1])
	if ticker == "" {
		return nil, fmt.Errorf("ticker is missing")
	}

	action, err := ParseAction(record[2])
	if err != nil {
		return nil, err
	}

	shares, err := strconv.Atoi(record[3])
	if err != nil {
		return nil, fmt.Errorf("invalid share count %q: %w", record[3], err)
	}
	if shares <= 0 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidQuantity, shares)
	}

	value, err := decimal.NewFromString(record[4])
	if err != nil {
		return nil, fmt.Errorf("invalid price %q: %w", record[4], err)
	}
	if value.IsNegative() {
		return nil, fmt.Errorf("price must not be negative, got %s", value)
	}
	price := M(value, currency)

	switch action {
	case CmdBuy:
		return NewBuy(day, "", ticker, Q(shares), price), nil
	case CmdSell:
		return NewSell(day, "", ticker, Q(shares), price), nil
	default:
		return nil, fmt.Errorf("unsupported action %q", action)
	}
}
