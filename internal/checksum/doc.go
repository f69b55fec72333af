// Package checksum computes SHA-256 digests of downloaded spreadsheets.
//
// The digest is reported with each fetch and stored as object metadata when
// the file is archived, so a run can be matched to the exact bytes it loaded.
package checksum
