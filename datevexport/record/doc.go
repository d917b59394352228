// Package record turns per-document export requests into DATEV entry batch
// records.
//
// The creator iterates one chunk of document ids, resolves revenue and debtor
// accounts through external rule stacks, derives the posting fields, and
// isolates failures per document: a failed item voids all records of its
// document (all-or-nothing) but never halts the chunk. Only systemic
// conditions abort the whole call, such as documents spanning multiple sales
// channels or unresolvable order graphs.
package record
