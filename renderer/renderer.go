// Package renderer converts wallet data into markdown reports, ready to be
// printed to the terminal.
package renderer
