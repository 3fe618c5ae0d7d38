// Package deps reports whether the external binaries subfit shells out to are
// installed, for the check command and for failing fast before long runs.
package deps
