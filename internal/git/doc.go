// Package git provides git operations via shell commands.
//
// All operations use the git CLI directly rather than Go git libraries.
// This keeps behavior identical to what the operator sees in a terminal and
// ensures compatibility with user configurations (SSH keys, credential
// helpers, aliases).
//
// Commit-log queries use the pipe-delimited pretty format %H|%s|%b
// (hash, subject, body) everywhere. Push is the only operation with a
// retry loop; everything else fails fast with the underlying command's
// stderr folded into the returned error.
package git
