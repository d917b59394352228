// Package request assembles the per-document export request: the calculation
// context of the underlying order, the decomposed price items, and the
// account keys the record creator resolves against.
//
// A request is immutable once built and may be empty, which marks the
// document as ineligible for this export path (POS receipts travel a
// separate one). Context-building failures are fatal: a document whose
// order, customer, or primary transaction cannot be resolved indicates
// broken data, not a business condition.
package request
