// Package fintrack keeps personal running accounts with counterparties.
//
// A [Book] holds any number of [Ledger]s, one per counterparty. Each ledger
// starts from an opening balance and records credit and debit
// [Transaction]s. The book maintains every ledger's current balance as a
// cached running total, updated in place by each mutation:
//   - adding a transaction adds its signed value,
//   - editing a transaction reverses its old signed value and applies the new one,
//   - removing a transaction reverses its signed value.
//
// Because a balance is a plain sum, the order in which transactions were
// entered never changes the current total, only the order in which they are
// reported. The balance reconstruction functions ([Ledger.TrueOpeningBalance],
// [Ledger.BroughtForward], [Ledger.RunningBalance] and [Ledger.Statement])
// recover point-in-time balances from the cached total and the transaction
// set, and [Ledger.Verify] audits the cache against a full recomputation.
//
// Persistence is write-through: after every successful mutation the whole
// collection is saved by the book's [Persister], see [Storage].
package fintrack
