// Package normalize implements the single normalized-line reader shared by
// the fingerprinter's SimHash pass and the text comparator's line diff.
//
// Both callers must treat a given NormalizationOptions identically — a
// fingerprinter that skips empty lines while the comparator keeps them would
// make similarity estimates and diff output silently disagree. Rather than
// duplicate the five-switch logic in two packages, it lives here once.
package normalize

import (
	"os"
	"strings"

	"github.com/ivoronin/compareit/internal/types"
)

// Lines reads path and returns its lines after applying opts.
func Lines(path string, opts types.NormalizationOptions) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromBytes(content, opts), nil
}

// FromBytes normalizes already-read file content. A trailing "\r" is
// preserved on each line when opts.IgnoreEOL is false (so CRLF vs LF is a
// visible difference by default) and stripped when true. IgnoreTrailingWS
// and IgnoreAllWS also remove it, as whitespace.
func FromBytes(content []byte, opts types.NormalizationOptions) []string {
	rawLines := strings.Split(string(content), "\n")
	// A trailing newline produces one spurious empty trailing element.
	if n := len(rawLines); n > 0 && rawLines[n-1] == "" {
		rawLines = rawLines[:n-1]
	}

	lines := make([]string, 0, len(rawLines))
	for _, raw := range rawLines {
		line := raw
		if opts.IgnoreEOL {
			line = strings.TrimSuffix(line, "\r")
		}
		lines = append(lines, applyLineOptions(line, opts))
	}
	return filterEmpty(lines, opts)
}

func applyLineOptions(line string, opts types.NormalizationOptions) string {
	s := line
	if opts.IgnoreTrailingWS {
		s = strings.TrimRight(s, " \t\r")
	}
	if opts.IgnoreAllWS {
		s = strings.Join(strings.Fields(s), " ")
	}
	if opts.IgnoreCase {
		s = strings.ToLower(s)
	}
	return s
}

func filterEmpty(lines []string, opts types.NormalizationOptions) []string {
	if !opts.SkipEmptyLines {
		return lines
	}
	out := lines[:0]
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}
