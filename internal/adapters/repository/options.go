// Package repository reads planner input from disk and persists results:
// per-team itinerary files and an optional SQLite run history.
package repository

import "io/fs"

// Option applies a configuration option to the ResultWriter.
type Option func(*ResultWriter)

// WithFileMode sets the permissions of written result files.
func WithFileMode(mode fs.FileMode) Option {
	return func(w *ResultWriter) {
		if mode != 0 {
			w.fileMode = mode
		}
	}
}

// WithDirMode sets the permissions of created team directories.
func WithDirMode(mode fs.FileMode) Option {
	return func(w *ResultWriter) {
		if mode != 0 {
			w.dirMode = mode
		}
	}
}
