// Package journal records rename and metadata batches in SQLite so they can
// be listed and undone later.
//
// A batch groups the per-file operations of one command run. Each operation
// stores its source and target paths along with the outcome, which is enough
// to move successfully renamed files back. The database lives at
// state_dir/journal.db, runs in WAL mode and retries briefly when another
// process holds the write lock.
//
// Schema changes bump schemaVersion in schema.go; an older database is
// rejected with ErrSchemaMismatch and must be deleted.
package journal
