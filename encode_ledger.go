package carteira

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// amountCmd is a specialized struct to read a ledger price in two fields.
type amountCmd struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

func (a amountCmd) Money() Money {
	return M(a.Amount, a.Currency)
}

// DecodeLedger decodes transactions from a stream of JSONL data, one
// transaction per line, and returns a sorted Ledger.
func DecodeLedger(r io.Reader) (*Ledger, error) {
	ledger := NewLedger()
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var identifier struct {
			Command CommandType `json:"command"`
		}
		if err := json.Unmarshal(lineBytes, &identifier); err != nil {
			return nil, fmt.Errorf("could not identify command in line %q: %w", string(lineBytes), err)
		}

		var decodedTx Transaction
		switch identifier.Command {
		case CmdBuy:
			var buy Buy
			if err := json.Unmarshal(lineBytes, &buy); err != nil {
				return nil, fmt.Errorf("could not parse buy line %q: %w", string(lineBytes), err)
			}
			decodedTx = buy
		case CmdSell:
			var sell Sell
			if err := json.Unmarshal(lineBytes, &sell); err != nil {
				return nil, fmt.Errorf("could not parse sell line %q: %w", string(lineBytes), err)
			}
			decodedTx = sell
		default:
			return nil, fmt.Errorf("unknown command %q in line %q", identifier.Command, string(lineBytes))
		}

		if err := decodedTx.Validate(); err != nil {
			return nil, fmt.Errorf("invalid %s transaction on %s: %w", decodedTx.What(), decodedTx.When(), err)
		}
		ledger.Append(decodedTx)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read ledger: %w", err)
	}

	return ledger, nil
}

// EncodeTransaction writes a single transaction as one JSONL line.
func EncodeTransaction(w io.Writer, tx Transaction) error {
	data, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("cannot marshal %s transaction: %w", tx.What(), err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// EncodeLedger writes the whole ledger in canonical JSONL form: one
// transaction per line, in chronological order.
func EncodeLedger(w io.Writer, l *Ledger) error {
	for _, tx := range l.Transactions(AcceptAll) {
		if err := EncodeTransaction(w, tx); err != nil {
			return err
		}
	}
	return nil
}
