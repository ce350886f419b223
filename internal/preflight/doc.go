// Package preflight provides readiness checks for the catalogs and local
// paths bookfinder depends on.
//
// The CLI "bookfinder doctor" command runs RunAll and renders each Result.
// Disabled catalogs and a missing Google Books key are reported as skipped,
// not failed, because searches still work with the remaining catalog.
package preflight
