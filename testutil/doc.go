// Package testutil provides fixtures and deterministic randomness for tests.
//
// This package is intended for use in tests only. It depends on nothing but
// the record package, so any package's tests may import it.
//
//	rng := testutil.NewRNG(seed)       // seeded, thread-safe
//	seq := testutil.NewSequence(1, 0)  // scripted Intn results
//	fn := testutil.Function("P_Example")
package testutil
