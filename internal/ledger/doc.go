// Package ledger holds the money rules of the transaction ledger: record
// invariants, partial-update merging, report aggregation and mock data
// generation. Everything here is pure; persistence lives in the repository
// package and orchestration in services.
package ledger
