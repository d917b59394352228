// Package chunk counts and paginates the exportable document ids of an
// export run.
//
// Both queries filter on the document date stored in the document's JSON
// config, falling back to the creation date, and run with the database
// session time zone forced to UTC so date-range boundaries do not shift with
// the connection's locale. The window query additionally freezes the view at
// the export's own creation timestamp; count and window share filter and
// ordering, which is what makes offset pagination stable.
package chunk
