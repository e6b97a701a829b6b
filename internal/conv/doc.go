// Package conv provides checked integer conversions for counts and offsets
// read from untrusted dump bytes.
package conv
