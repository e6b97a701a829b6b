// Package counter tracks how many queries have been served and reports
// milestone counts.
//
// The count is loaded from a Persister at startup and saved back at most
// once per flush interval while queries are recorded. Flush saves the
// current value unconditionally and is meant for shutdown.
package counter
