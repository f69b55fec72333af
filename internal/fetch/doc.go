// Package fetch locates the delinquent warrant spreadsheet on the publishing
// page and downloads it to the local output directory.
//
// A page without a spreadsheet link is an expected outcome: Fetch reports
// Found=false and writes nothing. Transport failures and non-2xx responses are
// fatal and are not retried.
package fetch
