package coinfolio

import (
	"encoding/json"
	"fmt"
)

// TxType is the side of a trade.
type TxType int

const (
	// Buy adds units to a position.
	Buy TxType = iota + 1
	// Sell removes units from a position.
	Sell
)

func (t TxType) String() string {
	switch t {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return "unknown"
	}
}

// ParseTxType parses "buy" or "sell".
func ParseTxType(s string) (TxType, error) {
	switch s {
	case "buy":
		return Buy, nil
	case "sell":
		return Sell, nil
	default:
		return 0, fmt.Errorf("unknown transaction type: %q", s)
	}
}

func (t TxType) MarshalJSON() ([]byte, error) { return json.Marshal(t.String()) }

func (t *TxType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseTxType(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}
