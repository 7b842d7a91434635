package coinfolio

import "fmt"

// HoldingOrder defines how holdings are listed in a Report.
type HoldingOrder int

const (
	// ByValue lists the largest positions first, ties broken by asset ID.
	ByValue HoldingOrder = iota
	// ByAsset lists holdings alphabetically by asset ID.
	ByAsset
)

func (o HoldingOrder) String() string {
	switch o {
	case ByValue:
		return "value"
	case ByAsset:
		return "asset"
	default:
		return "unknown"
	}
}

// ParseHoldingOrder parses a string into a HoldingOrder.
func ParseHoldingOrder(s string) (HoldingOrder, error) {
	switch s {
	case "value", "":
		return ByValue, nil
	case "asset":
		return ByAsset, nil
	default:
		return 0, fmt.Errorf("unknown holding order: %q", s)
	}
}
