package indexer

import (
	"bufio"
	"bytes"
	"os"
	"strings"

	"github.com/ivoronin/compareit/internal/types"
)

// detectType classifies a file using the extension hint plus a bounded
// content probe, per spec §4.1:
//
//  1. extension "csv" and header splits into >= 2 comma fields -> Csv
//  2. extension "tsv"/"tab" and header splits into >= 2 tab fields -> Tsv
//  3. header splits on comma into >= 2 valid fields -> Csv
//  4. header splits on tab into >= 2 valid fields -> Tsv
//  5. otherwise -> Text
//
// Any zero byte within the first 8KiB probe classifies the file Binary
// immediately, with LineCount 0.
func detectType(path, ext string) (types.FileKind, int, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.KindUnknown, 0, nil, err
	}
	defer func() { _ = f.Close() }()

	reader := bufio.NewReader(f)

	var probe bytes.Buffer
	var firstLine string
	lineCount := 0
	truncated := false

	for probe.Len() < probeSize {
		line, err := reader.ReadString('\n')
		if len(line) > 0 {
			if bytes.IndexByte([]byte(line), 0) >= 0 {
				return types.KindBinary, 0, nil, nil
			}
			lineCount++
			if lineCount == 1 {
				firstLine = strings.TrimRight(line, "\r\n")
			}
			probe.WriteString(line)
		}
		if err != nil {
			break // EOF or read error; probe is whatever we accumulated
		}
		if probe.Len() >= probeSize {
			truncated = true
			break
		}
	}

	if truncated {
		for {
			line, err := reader.ReadString('\n')
			if err == nil {
				lineCount++
				continue
			}
			// A final partial line with no trailing newline still counts.
			if len(line) > 0 {
				lineCount++
			}
			break
		}
	}

	isCsvExt := ext == "csv"
	isTsvExt := ext == "tsv" || ext == "tab"

	// Structured kinds report data rows, so the header line is not counted.
	dataRows := lineCount
	if dataRows > 0 {
		dataRows--
	}

	if isCsvExt {
		if cols := splitHeader(firstLine, ','); len(cols) >= 2 {
			return types.KindCsv, dataRows, cols, nil
		}
	}
	if isTsvExt {
		if cols := splitHeader(firstLine, '\t'); len(cols) >= 2 {
			return types.KindTsv, dataRows, cols, nil
		}
	}
	if firstLine != "" {
		if cols := detectStructuredHeader(firstLine, ','); cols != nil {
			return types.KindCsv, dataRows, cols, nil
		}
		if cols := detectStructuredHeader(firstLine, '\t'); cols != nil {
			return types.KindTsv, dataRows, cols, nil
		}
	}

	return types.KindText, lineCount, nil, nil
}

// splitHeader splits a header line on delim and trims each field, without
// validating field contents. Used when the extension already told us this
// should be a table.
func splitHeader(line string, delim byte) []string {
	parts := strings.Split(line, string(delim))
	if len(parts) < 2 {
		return nil
	}
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}

// detectStructuredHeader auto-detects a table header by content alone: at
// least 2 fields, each non-empty, under 100 chars, with no embedded newline.
func detectStructuredHeader(line string, delim byte) []string {
	parts := strings.Split(line, string(delim))
	if len(parts) < 2 {
		return nil
	}
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed == "" || len(trimmed) >= 100 || strings.ContainsAny(trimmed, "\n\r") {
			return nil
		}
	}
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}
