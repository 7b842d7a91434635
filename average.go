package coinfolio

// averageCost tracks the weighted-average price paid per unit currently held.
//
// Buys move the average, sells only reduce the quantity. The resolver and the
// aggregator both go through it, so a Holding always reports the same basis as
// the open cycle it comes from.
type averageCost struct {
	quantity Quantity
	avg      Money
}

// buy applies newAvg = (avg*qty + amount*price) / (qty+amount).
// On a flat or oversold position the average restarts at the buy price.
func (a *averageCost) buy(amount Quantity, price Money) {
	if !a.quantity.IsPositive() {
		a.quantity = a.quantity.Add(amount)
		a.avg = price
		return
	}
	total := a.quantity.Add(amount)
	a.avg = a.avg.Mul(a.quantity).Add(price.Mul(amount)).Div(total)
	a.quantity = total
}

// sell reduces the quantity and returns the gain locked in by the sale.
func (a *averageCost) sell(amount Quantity, price Money) Money {
	a.quantity = a.quantity.Sub(amount)
	return price.Sub(a.avg).Mul(amount)
}

// apply processes a transaction and returns the realized gain (zero for buys).
func (a *averageCost) apply(tx Transaction) Money {
	switch tx.Type {
	case Buy:
		a.buy(tx.Amount, tx.PricePerUnit)
	case Sell:
		return a.sell(tx.Amount, tx.PricePerUnit)
	}
	return Money{}
}

// legAverage returns the amount-weighted average price of the transactions of
// type typ, and their total amount. The average is zero when there are none.
func legAverage(txs []Transaction, typ TxType) (avg Money, total Quantity) {
	var value Money
	for _, tx := range txs {
		if tx.Type != typ {
			continue
		}
		total = total.Add(tx.Amount)
		value = value.Add(tx.Value())
	}
	if !total.IsPositive() {
		return Money{}, total
	}
	return value.Div(total), total
}
