// Package store is the PostgreSQL repository for properties and tax liens.
//
// Every insert runs as its own statement with ON CONFLICT DO NOTHING, so
// reloading the same spreadsheet is a no-op at the row level. Only schema
// creation is grouped in a transaction.
package store
