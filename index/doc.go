// Package index groups the compressed stores behind a wikidex Index.
//
//   - dictionary: one record per exact query. Records are encoded once per
//     distinct payload; a Builder freezes into an immutable Dictionary.
//   - lookup: many records per key in supply order, used for approximate
//     matching. Built in one shot and immutable.
//
// Both hold (tag, bytes) pairs and decode on read with the codec package.
// Reads never lock.
package index
