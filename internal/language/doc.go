// Package language maps the language names and codes users type into the
// ISO 639-1 codes catalogs accept for language restriction.
package language
