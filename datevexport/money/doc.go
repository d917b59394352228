// Package money provides the monetary primitives of the export pipeline.
//
// All amounts are decimal values rounded to two places using half-away-from-zero
// rounding. Reconciliation arithmetic runs on integer-scaled cents to avoid
// floating drift.
package money
