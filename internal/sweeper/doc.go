// Package sweeper executes bulk mutations against the models tree and the
// model database.
//
// Every operation is recoverable: payloads are moved into the review
// directory, never deleted, and the database row is only removed after the
// corresponding file operation has succeeded. A crash mid-batch therefore
// leaves at worst a moved file with a stale record, which the next
// reconciliation pass surfaces. Batches are best-effort per entry; one
// failing entry never aborts the rest.
package sweeper
