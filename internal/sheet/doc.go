// Package sheet decodes the warrant spreadsheet into raw records.
//
// The first sheet of the workbook is read. Row HeaderRowOffset holds the
// header and data starts on the row after it. Columns are assigned by
// position, so the header text itself is never interpreted.
package sheet
