// Package store reads model records from an existing InvokeAI SQLite database.
//
// The database belongs to InvokeAI; modeltidy attaches to it read-mostly. The
// only statements issued are a full-scan SELECT over the models table and
// DELETE by primary key, and the schema is never created or migrated here.
// Open verifies the columns this tool depends on and fails with a clear error
// when the schema is not recognizable.
package store
