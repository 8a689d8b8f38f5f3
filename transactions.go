package carteira

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// CommandType is a typed string for identifying transaction commands.
type CommandType string

// Command types used for identifying transactions.
const (
	CmdBuy  CommandType = "buy"
	CmdSell CommandType = "sell"
)

// ErrInvalidQuantity is returned when a transaction carries a zero or
// negative share count. The importer rejects such records upstream, but the
// position book also checks, so a malformed ledger cannot corrupt a position.
var ErrInvalidQuantity = errors.New("quantity must be a positive number of shares")

// ParseAction maps a broker statement action letter to a command type.
// Only "B" (buy) and "S" (sell) exist; anything else is rejected here, at
// the boundary, so the fold engine only ever sees the two closed cases.
func ParseAction(s string) (CommandType, error) {
	switch strings.TrimSpace(s) {
	case "B":
		return CmdBuy, nil
	case "S":
		return CmdSell, nil
	default:
		return "", fmt.Errorf("unknown action %q, want \"B\" or \"S\"", s)
	}
}

// NormalizeTicker returns the canonical form of a ticker symbol: trimmed
// and upper-cased. All tickers are normalized before they reach the ledger.
func NormalizeTicker(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Transaction defines the common interface for the transactions that can be
// recorded in the ledger.
type Transaction interface {
	What() CommandType // What returns the command type of the transaction ("buy", "sell").
	When() Date        // When returns the date on which the transaction occurred.
	Ticker() string    // Ticker returns the normalized security ticker.
	Shares() Quantity  // Shares returns the transacted share count.
	UnitPrice() Money  // UnitPrice returns the price per share.
	Equal(Transaction) bool
	Validate() error
}

type baseCmd struct {
	Command CommandType `json:"command"`        // Command specifies the type of transaction.
	Date    Date        `json:"date"`           // Date is the date when the transaction took place.
	Memo    string      `json:"memo,omitempty"` // Memo provides an optional note for the transaction.
}

// What returns the command name for the transaction.
func (t baseCmd) What() CommandType {
	return t.Command
}

// When returns the date of the transaction.
func (t baseCmd) When() Date {
	return t.Date
}

// MarshalJSON implements the json.Marshaler interface for baseCmd.
func (t baseCmd) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("command", t.Command)
	w.Append("date", t.Date)
	w.Optional("memo", t.Memo)
	return w.MarshalJSON()
}

// secCmd is the component common to security transactions (buy, sell).
type secCmd struct {
	baseCmd
	Security string `json:"security"` // Security is the ticker symbol of the traded security.
	Quantity Quantity
	Price    Money // price per share
}

func (t secCmd) Ticker() string   { return t.Security }
func (t secCmd) Shares() Quantity { return t.Quantity }
func (t secCmd) UnitPrice() Money { return t.Price }

// Cost returns the total amount of the transaction (quantity times price).
func (t secCmd) Cost() Money { return t.Price.Mul(t.Quantity) }

// Validate checks the fields shared by buy and sell transactions.
func (t secCmd) Validate() error {
	if t.Date.IsZero() {
		return errors.New("transaction date is missing")
	}
	if t.Security == "" {
		return errors.New("security ticker is missing")
	}
	if t.Security != NormalizeTicker(t.Security) {
		return fmt.Errorf("ticker %q is not normalized", t.Security)
	}
	if !t.Quantity.IsPositive() {
		return fmt.Errorf("%w, got %s", ErrInvalidQuantity, t.Quantity)
	}
	if t.Price.IsNegative() {
		return fmt.Errorf("price per share must not be negative, got %s", t.Price)
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface for secCmd.
func (t secCmd) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseCmd)
	w.Append("security", t.Security)
	w.Append("quantity", t.Quantity)
	w.EmbedFrom(t.Price)
	return w.MarshalJSON()
}

// Buy represents a transaction where a quantity of a security is purchased
// at a given price per share.
type Buy struct {
	secCmd
}

// NewBuy creates a new Buy transaction.
func NewBuy(day Date, memo, security string, quantity Quantity, price Money) Buy {
	return Buy{
		secCmd: secCmd{
			baseCmd:  baseCmd{Command: CmdBuy, Date: day, Memo: memo},
			Security: NormalizeTicker(security),
			Quantity: quantity,
			Price:    price,
		},
	}
}

func (t Buy) Equal(other Transaction) bool {
	o, ok := other.(Buy)
	return ok && t.baseCmd == o.baseCmd && t.Security == o.Security &&
		t.Quantity.Equal(o.Quantity) && t.Price.Equal(o.Price)
}

// UnmarshalJSON implements the json.Unmarshaler interface for Buy.
// It handles the custom structure where amount and currency are separate fields.
func (t *Buy) UnmarshalJSON(data []byte) error {
	sec, err := unmarshalSecCmd(data)
	if err != nil {
		return err
	}
	t.secCmd = sec
	return nil
}

// Sell represents a transaction where a quantity of a security is sold at a
// given price per share. The sell price is informational only: it never
// affects the average acquisition cost of the remaining shares.
type Sell struct {
	secCmd
}

// NewSell creates a new Sell transaction.
func NewSell(day Date, memo, security string, quantity Quantity, price Money) Sell {
	return Sell{
		secCmd: secCmd{
			baseCmd:  baseCmd{Command: CmdSell, Date: day, Memo: memo},
			Security: NormalizeTicker(security),
			Quantity: quantity,
			Price:    price,
		},
	}
}

func (t Sell) Equal(other Transaction) bool {
	o, ok := other.(Sell)
	return ok && t.baseCmd == o.baseCmd && t.Security == o.Security &&
		t.Quantity.Equal(o.Quantity) && t.Price.Equal(o.Price)
}

// UnmarshalJSON implements the json.Unmarshaler interface for Sell.
func (t *Sell) UnmarshalJSON(data []byte) error {
	sec, err := unmarshalSecCmd(data)
	if err != nil {
		return err
	}
	t.secCmd = sec
	return nil
}

// unmarshalSecCmd decodes the shared wire shape of buy and sell lines, where
// the price amount and its currency are two separate fields.
func unmarshalSecCmd(data []byte) (secCmd, error) {
	var temp struct {
		baseCmd
		Security string   `json:"security"`
		Quantity Quantity `json:"quantity"`
		amountCmd
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return secCmd{}, err
	}
	return secCmd{
		baseCmd:  temp.baseCmd,
		Security: temp.Security,
		Quantity: temp.Quantity,
		Price:    temp.Money(),
	}, nil
}
