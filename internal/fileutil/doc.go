// Package fileutil writes command output safely: atomically via rename, and
// serialized across processes with an advisory flock beside the target.
package fileutil
