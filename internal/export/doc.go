// Package export converts caption documents between SubRip and WebVTT using
// go-astisub. The resegmentation engine itself only speaks SubRip; this
// package sits at the edges of the CLI.
package export
