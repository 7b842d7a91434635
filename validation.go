package coinfolio

import (
	"errors"
	"fmt"
	"time"
)

// ErrInsufficientBalance is returned when a history sells more units than it holds.
var ErrInsufficientBalance = errors.New("insufficient balance")

// ValidateHistory checks a set of transactions before it reaches the resolver:
// every transaction must be well formed, and no asset may be sold beyond its
// position at the time of the sale.
func ValidateHistory(txs []Transaction) error {
	for _, tx := range txs {
		if err := tx.Validate(); err != nil {
			return err
		}
	}

	assets, byAsset := groupByAsset(txs)
	for _, asset := range assets {
		var net Quantity
		for _, tx := range chronological(byAsset[asset]) {
			held := net
			net = net.Add(tx.Signed())
			if net.Negligible() {
				net = Quantity{}
				continue
			}
			if net.IsNegative() {
				return fmt.Errorf("%w: on %s, cannot sell %s %s, position is only %s",
					ErrInsufficientBalance, tx.Timestamp.Format(time.RFC3339), tx.Amount, asset, held)
			}
		}
	}
	return nil
}
