// Package reconcile joins model records from the database with the on-disk
// inventory and classifies every pairing.
//
// Classification is a total function over (record, file) presence and content
// flags, evaluated with a fixed precedence so each entry lands in exactly one
// category. Duplicate detection runs as a second pass and tags entries without
// changing their category. A Snapshot is rebuilt from scratch on every pass;
// nothing here holds state between calls.
package reconcile
