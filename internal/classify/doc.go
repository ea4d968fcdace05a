// Package classify decides whether a target directory is a greenfield,
// ongoing, or brownfield project.
//
// The classifier scans a bounded number of files, counts git history, and
// looks for existing template state. The resulting verdict carries a
// confidence score, the evidence behind it, and the safeguards the caller
// should apply before writing templates into the directory.
package classify
