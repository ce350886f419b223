package main

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"bookfinder/internal/metadata"
)

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func formatYear(record metadata.Record) string {
	if year := record.Year(); year > 0 {
		return strconv.Itoa(year)
	}
	return "-"
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

// writeJSON encodes v as indented JSON. HTML escaping is off so titles such as
// "Pride & Prejudice" print verbatim.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
