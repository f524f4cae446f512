// Package preflight provides readiness checks for the filesystem paths and
// external tools mediaorg depends on.
//
// The CLI status command renders RunAll and CheckSystemDeps; rename and tag
// batches call CheckDirectoryAccess on the target tree before taking the batch
// lock so a read-only mount fails fast instead of once per file.
package preflight
