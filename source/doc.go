// Package source turns wiki exports into (query, record) pairs.
//
// A Source reads its blobs from a blobstore.Store every time All is ranged
// over, so a source can be drained more than once. Parsers are:
//
//   - Functions: the Lua functions page
//   - Structs: one page per userdata structure, with their fields
//   - Commons: canned answers from a YAML or JSON file
//
// Each record is emitted once per alias. Queries are lowercase for parsed
// pages and verbatim for commons.
package source
