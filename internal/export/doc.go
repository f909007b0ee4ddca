// Package export writes a finished (or partial) session out as CSV, JSON or
// rendered charts. Exports are one-way: nothing in this package reads them
// back.
package export
