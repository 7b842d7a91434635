// Package coinfolio keeps a ledger of crypto trades and derives profit and
// loss from it.
//
// Transactions are the only source of truth. Everything else is recomputed on
// demand:
//   - Cycles: the history of an asset is split into trading cycles, each one
//     ending when the net quantity comes back to zero. A closed cycle becomes a
//     ClosedPosition with its realized P&L.
//   - Holdings: the open cycle of each asset is valued at the current price,
//     using a weighted-average cost basis that only buys move.
//   - Summary: unrealized and realized gains are added up across assets.
//
// Storage is behind the Repository interface; the in-memory Ledger is one
// implementation, the store packages provide persistent ones. Prices come from
// a PriceSource. The AccountingSystem ties both together for the coin command
// and the HTTP server.
package coinfolio
