package core

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func strPtr(s string) *string { return &s }

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		want       string
		wantReason string
	}{
		{name: "plain amount", input: "45.50", want: "45.5"},
		{name: "integer amount", input: "100", want: "100"},
		{name: "single decimal place", input: "0.5", want: "0.5"},
		{name: "whitespace trimmed", input: " 12.34 ", want: "12.34"},
		{name: "not a number", input: "abc", wantReason: "is not a valid decimal number"},
		{name: "empty", input: "", wantReason: "is not a valid decimal number"},
		{name: "zero", input: "0", wantReason: "must be strictly positive"},
		{name: "negative", input: "-3.50", wantReason: "must be strictly positive"},
		{name: "too many decimal places", input: "1.999", wantReason: "must have at most 2 decimal places"},
		{name: "too large", input: "100000000.00", wantReason: "exceeds the supported precision"},
		{name: "largest valid", input: "99999999.99", want: "99999999.99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantReason != "" {
				var ve ValidationError
				if !errors.As(err, &ve) {
					t.Fatalf("ParseAmount(%q) error = %v, want ValidationError", tt.input, err)
				}
				if ve.Field != "sum" {
					t.Errorf("field = %q, want sum", ve.Field)
				}
				if ve.Reason != tt.wantReason {
					t.Errorf("reason = %q, want %q", ve.Reason, tt.wantReason)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q) unexpected error: %v", tt.input, err)
			}
			if got.String() != tt.want {
				t.Errorf("ParseAmount(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestCreateRecordNormalize(t *testing.T) {
	valid := CreateRecord{
		Name:       "Groceries",
		Category:   strPtr("food"),
		RecordType: "expense",
		Sum:        "45.50",
	}

	rec, err := valid.Normalize()
	if err != nil {
		t.Fatalf("Normalize() unexpected error: %v", err)
	}
	if rec.Name != "Groceries" {
		t.Errorf("name = %q", rec.Name)
	}
	if rec.Category == nil || *rec.Category != CategoryFood {
		t.Errorf("category = %v, want food", rec.Category)
	}
	if rec.Type != Expense {
		t.Errorf("type = %q, want expense", rec.Type)
	}
	if !rec.Amount.Equal(decimal.RequireFromString("45.50")) {
		t.Errorf("amount = %s, want 45.50", rec.Amount)
	}
	if rec.Description != nil {
		t.Errorf("description = %v, want nil", rec.Description)
	}
}

func TestCreateRecordNormalizeRejections(t *testing.T) {
	tests := []struct {
		name       string
		payload    CreateRecord
		wantFields []string
	}{
		{
			name:       "empty name",
			payload:    CreateRecord{Name: "  ", RecordType: "income", Sum: "1"},
			wantFields: []string{"name"},
		},
		{
			name:       "name too long",
			payload:    CreateRecord{Name: strings.Repeat("x", 256), RecordType: "income", Sum: "1"},
			wantFields: []string{"name"},
		},
		{
			name:       "bad record type",
			payload:    CreateRecord{Name: "a", RecordType: "transfer", Sum: "1"},
			wantFields: []string{"record_type"},
		},
		{
			name:       "bad category",
			payload:    CreateRecord{Name: "a", Category: strPtr("toys"), RecordType: "income", Sum: "1"},
			wantFields: []string{"category"},
		},
		{
			name:       "non-positive amount",
			payload:    CreateRecord{Name: "a", RecordType: "income", Sum: "-5"},
			wantFields: []string{"sum"},
		},
		{
			name:       "every field wrong at once",
			payload:    CreateRecord{Name: "", Category: strPtr("toys"), RecordType: "", Sum: "x"},
			wantFields: []string{"name", "category", "record_type", "sum"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.payload.Normalize()
			var errs ValidationErrors
			if !errors.As(err, &errs) {
				t.Fatalf("Normalize() error = %v, want ValidationErrors", err)
			}
			got := make(map[string]bool, len(errs))
			for _, ve := range errs {
				got[ve.Field] = true
			}
			if len(errs) != len(tt.wantFields) {
				t.Errorf("got %d errors (%v), want %d", len(errs), errs, len(tt.wantFields))
			}
			for _, f := range tt.wantFields {
				if !got[f] {
					t.Errorf("missing validation error for field %q in %v", f, errs)
				}
			}
		})
	}
}

func TestRecordPatchNormalize(t *testing.T) {
	t.Run("absent fields stay nil", func(t *testing.T) {
		patch, err := RecordPatch{Sum: strPtr("50.00")}.Normalize()
		if err != nil {
			t.Fatalf("Normalize() unexpected error: %v", err)
		}
		if patch.Name != nil || patch.Description != nil || patch.Category != nil || patch.Type != nil {
			t.Errorf("unexpected present fields in %+v", patch)
		}
		if patch.Amount == nil || !patch.Amount.Equal(decimal.RequireFromString("50")) {
			t.Errorf("amount = %v, want 50", patch.Amount)
		}
	})

	t.Run("empty patch is empty", func(t *testing.T) {
		patch, err := RecordPatch{}.Normalize()
		if err != nil {
			t.Fatalf("Normalize() unexpected error: %v", err)
		}
		if !patch.IsEmpty() {
			t.Errorf("IsEmpty() = false for %+v", patch)
		}
	})

	t.Run("invalid amount rejected on update too", func(t *testing.T) {
		_, err := RecordPatch{Sum: strPtr("0")}.Normalize()
		var errs ValidationErrors
		if !errors.As(err, &errs) || len(errs) != 1 || errs[0].Field != "sum" {
			t.Fatalf("Normalize() error = %v, want single sum error", err)
		}
	})

	t.Run("supplied name still validated", func(t *testing.T) {
		_, err := RecordPatch{Name: strPtr("   ")}.Normalize()
		var errs ValidationErrors
		if !errors.As(err, &errs) || len(errs) != 1 || errs[0].Field != "name" {
			t.Fatalf("Normalize() error = %v, want single name error", err)
		}
	})
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter("food", "expense")
	if err != nil {
		t.Fatalf("ParseFilter() unexpected error: %v", err)
	}
	if f.Category == nil || *f.Category != CategoryFood || f.Type == nil || *f.Type != Expense {
		t.Errorf("filter = %+v", f)
	}

	if f, err := ParseFilter("", ""); err != nil || !f.IsZero() {
		t.Errorf("empty filter: f=%+v err=%v", f, err)
	}

	if _, err := ParseFilter("toys", ""); err == nil {
		t.Error("expected rejection for unknown category")
	}
	if _, err := ParseFilter("", "transfer"); err == nil {
		t.Error("expected rejection for unknown record type")
	}
}
