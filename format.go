package main

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// statusf prints a progress message to stderr unless quiet mode is set.
// Data rows go to stdout only; everything else goes here.
func statusf(format string, args ...any) {
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

// writeRow writes one tab-separated record. Embedded tabs and newlines in
// fields are replaced with spaces so a row is always exactly one line.
func writeRow(w io.Writer, fields ...string) error {
	for i, f := range fields {
		fields[i] = sanitizeField(f)
	}

	_, err := fmt.Fprintln(w, strings.Join(fields, "\t"))

	return err
}

// sanitizeField flattens characters that would break TSV framing.
func sanitizeField(s string) string {
	if !strings.ContainsAny(s, "\t\n\r") {
		return s
	}

	replacer := strings.NewReplacer("\t", " ", "\n", " ", "\r", " ")

	return replacer.Replace(s)
}
