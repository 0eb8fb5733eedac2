package types

import (
	"encoding/json"
	"testing"
)

func TestResultTypeJSONRoundTrip(t *testing.T) {
	for _, rt := range []ResultType{ResultText, ResultStructured, ResultHashOnly, ResultError} {
		data, err := json.Marshal(rt)
		if err != nil {
			t.Fatalf("marshal %v: %v", rt, err)
		}
		var got ResultType
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("unmarshal %v (%s): %v", rt, data, err)
		}
		if got != rt {
			t.Errorf("round-trip mismatch: got %v, want %v", got, rt)
		}
	}
}

func TestResultTypeUnmarshalRejectsUnknownString(t *testing.T) {
	var rt ResultType
	if err := json.Unmarshal([]byte(`"bogus"`), &rt); err == nil {
		t.Error("expected an error for an unrecognized ResultType string")
	}
}

func TestComparisonResultJSONRoundTrip(t *testing.T) {
	original := ComparisonResult{
		Type:            ResultStructured,
		LinkedID:        "aaaa:bbbb",
		File1Path:       "a.csv",
		File2Path:       "b.csv",
		SimilarityScore: 0.875,
		Identical:       false,
		File1RowCount:   10,
		File2RowCount:   12,
		CommonRecords:   9,
		FieldMismatches: []ColumnMismatch{
			{Column: "value", Count: 2, Samples: []FieldMismatch{{Key: "1", Value1: "a", Value2: "b"}}},
		},
		TotalFieldMismatches: 2,
		CommonColumns:        []string{"id", "value"},
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var round ComparisonResult
	if err := json.Unmarshal(data, &round); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if round.Type != original.Type {
		t.Errorf("Type mismatch: got %v, want %v", round.Type, original.Type)
	}
	if round.LinkedID != original.LinkedID || round.SimilarityScore != original.SimilarityScore {
		t.Errorf("round-tripped result differs: got %+v, want %+v", round, original)
	}
	if len(round.FieldMismatches) != 1 || round.FieldMismatches[0].Column != "value" {
		t.Errorf("field mismatches did not round-trip: %+v", round.FieldMismatches)
	}
}
