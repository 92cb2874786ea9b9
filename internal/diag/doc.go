// Package diag defines the diagnostic model shared by every pipeline stage:
// severities, stable numeric codes, the capacity-bounded Bag collector and
// the Reporter hand-off interface. Stages never format diagnostics; that is
// the job of diagfmt.
package diag
