// Package source reads physical log lines from files and readers.
package source

// MaxLineSize is the longest line a source accepts.
const MaxLineSize = 1024 * 1024

// StdinName is the path that selects standard input.
const StdinName = "-"
