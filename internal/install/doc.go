// Package install extracts template archives into project directories and
// copies local template checkouts.
//
// Two target topologies are supported. A fresh target does not exist yet:
// the archive is extracted straight into it and the directory is removed
// again if extraction fails. A current-directory target already holds the
// user's files: the archive is extracted to scratch space first and then
// merged in, overwriting same-named files, with no rollback.
//
// In both cases an archive whose top level is a single directory is
// flattened so its contents land directly in the target.
package install
