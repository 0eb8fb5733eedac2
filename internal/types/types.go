// Package types defines the shared data model used across the compareit
// pipeline: indexer, fingerprinter, matcher and comparators all operate on
// these types.
package types

import (
	"encoding/json"
	"fmt"
)

// FileKind classifies a file as detected by the indexer.
type FileKind int

const (
	// KindUnknown is the zero value; it should never appear on an entry
	// that has been through detection.
	KindUnknown FileKind = iota
	KindText
	KindCsv
	KindTsv
	KindBinary
)

func (k FileKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindCsv:
		return "csv"
	case KindTsv:
		return "tsv"
	case KindBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// IsStructured reports whether the kind is a delimited table (Csv or Tsv).
func (k FileKind) IsStructured() bool {
	return k == KindCsv || k == KindTsv
}

// FileEntry is one indexed file, enriched in place by the fingerprinter.
//
// Invariants (enforced by the producing stages, not by this type):
//   - Kind == KindCsv || Kind == KindTsv implies Columns has >= 2 entries
//     and, once fingerprinted, SchemaSignature is set.
//   - Kind == KindBinary implies SimHash is nil.
//   - ContentHash is non-empty once fingerprinting has succeeded.
type FileEntry struct {
	Path      string
	Size      int64
	Kind      FileKind
	Extension string // lowercased, without the leading dot

	ContentHash     string // hex-encoded sha256, filled by the fingerprinter
	SimHash         *uint64
	SchemaSignature string // first 16 hex chars, structured files only

	LineCount int // lines (text) or data rows (structured)
	Columns   []string
}

// CandidatePair is two FileEntries the matcher decided are worth comparing.
type CandidatePair struct {
	File1 *FileEntry
	File2 *FileEntry

	EstimatedSimilarity float64
	ExactHashMatch      bool
}

// PairingStrategy selects how the matcher builds candidate pairs.
type PairingStrategy int

const (
	PairingAllVsAll PairingStrategy = iota
	PairingSamePath
	PairingSameName
)

// SimilarityAlgorithm selects the text comparator's scoring function.
type SimilarityAlgorithm int

const (
	SimilarityDiff SimilarityAlgorithm = iota
	SimilarityCharJaro
)

// CompareMode selects which comparator the dispatcher uses for a pair.
type CompareMode int

const (
	ModeAuto CompareMode = iota
	ModeText
	ModeStructured
)

// NormalizationOptions are the five independently toggleable line-normalization
// switches shared by the fingerprinter's SimHash pass and the text comparator.
type NormalizationOptions struct {
	IgnoreEOL         bool
	IgnoreTrailingWS  bool
	IgnoreAllWS       bool
	IgnoreCase        bool
	SkipEmptyLines    bool
}

// CompareConfig drives every stage of the pipeline. It is the only
// configuration surface: no environment variables, no config files.
type CompareConfig struct {
	Mode     CompareMode
	Pairing  PairingStrategy
	TopK     int
	MaxPairs int // 0 means unset/no cap

	KeyColumns       []string
	NumericTolerance float64

	Normalization       NormalizationOptions
	SimilarityAlgorithm SimilarityAlgorithm

	MaxDiffBytes int

	// Workers bounds parallelism in the indexer, fingerprinter and
	// comparator batch drivers. 0 or less is treated as 1.
	Workers int
}

// DefaultConfig returns the default configuration, matching the defaults of
// the original CompareIt tool. The compare command sets the same values as
// its flag defaults rather than calling this function.
func DefaultConfig() CompareConfig {
	return CompareConfig{
		Mode:                ModeAuto,
		Pairing:             PairingAllVsAll,
		TopK:                3,
		NumericTolerance:    0.0001,
		SimilarityAlgorithm: SimilarityDiff,
		MaxDiffBytes:        1024 * 1024,
	}
}

// ResultType discriminates the ComparisonResult tagged union (see §3/§6).
type ResultType int

const (
	ResultText ResultType = iota
	ResultStructured
	ResultHashOnly
	ResultError
)

func (t ResultType) String() string {
	switch t {
	case ResultText:
		return "text"
	case ResultStructured:
		return "structured"
	case ResultHashOnly:
		return "hash_only"
	case ResultError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalJSON renders the type as its string name rather than its ordinal,
// so JSONL output reads "type":"text" instead of "type":0.
func (t ResultType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON parses the string name produced by MarshalJSON back into
// the matching ordinal, so a ComparisonResult round-trips through JSON.
func (t *ResultType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch s {
	case "text":
		*t = ResultText
	case "structured":
		*t = ResultStructured
	case "hash_only":
		*t = ResultHashOnly
	case "error":
		*t = ResultError
	default:
		return fmt.Errorf("types: unknown ResultType %q", s)
	}
	return nil
}

// ColumnMismatch aggregates field-level mismatches for one non-key column.
type ColumnMismatch struct {
	Column  string          `json:"column_name"`
	Count   int             `json:"mismatch_count"`
	Samples []FieldMismatch `json:"sample_mismatches"` // at most 5, insertion order
}

// FieldMismatch is a single (key, value1, value2) sample.
type FieldMismatch struct {
	Key    string `json:"key"`
	Value1 string `json:"value1"`
	Value2 string `json:"value2"`
}

// ComparisonResult is the tagged union every comparator produces, one per
// CandidatePair. Only the fields relevant to Type are populated; the rest
// carry their zero value.
type ComparisonResult struct {
	Type ResultType `json:"type"`

	LinkedID  string `json:"linked_id"`
	File1Path string `json:"file1_path"`
	File2Path string `json:"file2_path"`

	SimilarityScore float64 `json:"similarity_score"`
	Identical       bool    `json:"identical"`

	// Text fields
	File1LineCount     int    `json:"file1_line_count,omitempty"`
	File2LineCount     int    `json:"file2_line_count,omitempty"`
	CommonLines        int    `json:"common_lines,omitempty"`
	OnlyInFile1        int    `json:"only_in_file1,omitempty"`
	OnlyInFile2        int    `json:"only_in_file2,omitempty"`
	DifferentPositions string `json:"different_positions,omitempty"`
	DetailedDiff       string `json:"detailed_diff,omitempty"`
	DiffTruncated      bool   `json:"diff_truncated,omitempty"`

	// Structured fields
	File1RowCount        int              `json:"file1_row_count,omitempty"`
	File2RowCount        int              `json:"file2_row_count,omitempty"`
	CommonRecords        int              `json:"common_records,omitempty"`
	FieldMismatches      []ColumnMismatch `json:"field_mismatches,omitempty"`
	TotalFieldMismatches int              `json:"total_field_mismatches,omitempty"`
	ColumnsOnlyInFile1   []string         `json:"columns_only_in_file1,omitempty"`
	ColumnsOnlyInFile2   []string         `json:"columns_only_in_file2,omitempty"`
	CommonColumns        []string         `json:"common_columns,omitempty"`

	// HashOnly fields
	File1Size int64 `json:"file1_size,omitempty"`
	File2Size int64 `json:"file2_size,omitempty"`

	// Error field
	Error string `json:"error,omitempty"`
}

// ComparisonSummary aggregates a batch of ComparisonResults (§7, §9).
type ComparisonSummary struct {
	TotalFilesSet1 int `json:"total_files_set1"`
	TotalFilesSet2 int `json:"total_files_set2"`
	PairsCompared  int `json:"pairs_compared"`
	IdenticalPairs int `json:"identical_pairs"`
	DifferentPairs int `json:"different_pairs"`
	ErrorPairs     int `json:"error_pairs"`

	AverageSimilarity float64 `json:"average_similarity"`
	MinSimilarity     float64 `json:"min_similarity"`
	MaxSimilarity     float64 `json:"max_similarity"`
}

// Semaphore implements a counting semaphore using a buffered channel.
// It limits concurrent access to a resource by blocking when the limit is
// reached. Carried over from the teacher's internal/types package.
type Semaphore chan struct{}

// NewSemaphore creates a semaphore that allows up to n concurrent acquisitions.
// n <= 0 is treated as 1.
func NewSemaphore(n int) Semaphore {
	if n <= 0 {
		n = 1
	}
	return make(Semaphore, n)
}

// Acquire blocks until a slot is available, then claims it.
func (s Semaphore) Acquire() { s <- struct{}{} }

// Release frees a slot, unblocking one waiting Acquire call.
func (s Semaphore) Release() { <-s }
