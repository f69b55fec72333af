// Package transform turns raw spreadsheet rows into the records, properties
// and liens that are written to storage. Everything here is pure and in memory.
package transform
