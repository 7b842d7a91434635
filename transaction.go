package coinfolio

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidTransaction is returned when a transaction cannot be created.
var ErrInvalidTransaction = errors.New("invalid transaction")

// now is the clock used to reject transactions dated in the future.
var now = time.Now

// Transaction is an immutable record of one trade.
//
// Transactions are value types: editing a transaction means saving another value
// with the same ID.
type Transaction struct {
	ID           string
	AssetID      string
	Type         TxType
	Amount       Quantity // Amount is the number of units traded.
	PricePerUnit Money
	Timestamp    time.Time
	Notes        string
}

// NewTransaction creates a new transaction with a fresh ID.
// It fails if the asset is blank, amount or price are not positive, or if the
// transaction is dated in the future.
func NewTransaction(assetID string, typ TxType, amount Quantity, price Money, at time.Time, notes string) (Transaction, error) {
	tx := Transaction{
		ID:           uuid.NewString(),
		AssetID:      NormalizeAsset(assetID),
		Type:         typ,
		Amount:       amount,
		PricePerUnit: price,
		Timestamp:    at,
		Notes:        notes,
	}
	if err := tx.Validate(); err != nil {
		return Transaction{}, err
	}
	if err := CheckTimestamp(at); err != nil {
		return Transaction{}, err
	}
	return tx, nil
}

// NormalizeAsset returns the canonical form of an asset ID: trimmed and upper
// case, so that "btc" and "BTC" are the same asset.
func NormalizeAsset(assetID string) string {
	return strings.ToUpper(strings.TrimSpace(assetID))
}

// CheckTimestamp rejects a timestamp dated after now. It applies to
// transactions being created or edited, not to restored ones.
func CheckTimestamp(at time.Time) error {
	if at.After(now()) {
		return fmt.Errorf("%w: timestamp %s is in the future", ErrInvalidTransaction, at.Format(time.RFC3339))
	}
	return nil
}

// Validate checks the structural invariants of a transaction, typically one
// restored from storage.
func (t Transaction) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidTransaction)
	}
	if t.AssetID == "" {
		return fmt.Errorf("%w: missing asset", ErrInvalidTransaction)
	}
	if t.Type != Buy && t.Type != Sell {
		return fmt.Errorf("%w: unknown type %d", ErrInvalidTransaction, t.Type)
	}
	if !t.Amount.IsPositive() {
		return fmt.Errorf("%w: %s amount must be positive, got %s", ErrInvalidTransaction, t.Type, t.Amount)
	}
	if !t.PricePerUnit.IsPositive() {
		return fmt.Errorf("%w: %s price must be positive, got %s", ErrInvalidTransaction, t.Type, t.PricePerUnit)
	}
	return nil
}

// Value returns amount * price.
func (t Transaction) Value() Money { return t.PricePerUnit.Mul(t.Amount) }

// Signed returns the change in position: +amount for a buy, -amount for a sell.
func (t Transaction) Signed() Quantity {
	if t.Type == Sell {
		return t.Amount.Neg()
	}
	return t.Amount
}

func (t Transaction) Equal(o Transaction) bool {
	return t.ID == o.ID && t.AssetID == o.AssetID && t.Type == o.Type &&
		t.Amount.Equal(o.Amount) && t.PricePerUnit.Equal(o.PricePerUnit) &&
		t.Timestamp.Equal(o.Timestamp) && t.Notes == o.Notes
}

func (t Transaction) String() string {
	return fmt.Sprintf("%s %s %s @ %s on %s", t.Type, t.Amount, t.AssetID, t.PricePerUnit, t.Timestamp.Format(time.RFC3339))
}

// MarshalJSON implements the json.Marshaler interface for Transaction.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", t.ID)
	w.Append("asset", t.AssetID)
	w.Append("type", t.Type)
	w.Append("amount", t.Amount)
	w.Append("price", t.PricePerUnit)
	w.Append("timestamp", t.Timestamp.UTC().Format(time.RFC3339Nano))
	w.Optional("notes", t.Notes)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Transaction.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var temp struct {
		ID        string    `json:"id"`
		Asset     string    `json:"asset"`
		Type      TxType    `json:"type"`
		Amount    Quantity  `json:"amount"`
		Price     Money     `json:"price"`
		Timestamp time.Time `json:"timestamp"`
		Notes     string    `json:"notes"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	*t = Transaction{
		ID:           temp.ID,
		AssetID:      temp.Asset,
		Type:         temp.Type,
		Amount:       temp.Amount,
		PricePerUnit: temp.Price,
		Timestamp:    temp.Timestamp,
		Notes:        temp.Notes,
	}
	return nil
}
