// Package datevexport contains the shared domain model of the DATEV posting
// export: sales documents, orders, sales channels, and the export profile
// driving one export run.
//
// The pipeline itself lives in subpackages: decompose (price decomposition),
// chunk (document windowing), request (per-document request assembly), and
// record (posting record creation). Everything the pipeline does not own
// (entity persistence, account rule matching, cost centers, tax validation,
// the scheduler, and the DATEV file writer) is consumed through interfaces
// defined next to their consumers.
package datevexport
