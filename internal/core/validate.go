package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	maxNameLength = 255

	// Amounts follow a fixed-point decimal(10,2) contract: at most two
	// fractional digits and at most eight integer digits.
	maxAmountScale = 2
)

// maxAmount is the first value outside the decimal(10,2) range.
var maxAmount = decimal.New(1, 8)

// ValidationError reports a single rejected field and why.
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"msg"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ValidationErrors accumulates every failing field of one payload so
// callers can surface them all at once.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// CreateRecord is the raw create payload as received on the wire,
// before any validation.
type CreateRecord struct {
	Name        string
	Description *string
	Category    *string
	RecordType  string
	Sum         string
}

// NewRecord is a validated, normalized create payload ready for the
// store, which assigns id and timestamps itself.
type NewRecord struct {
	Name        string
	Description *string
	Category    *Category
	Type        RecordType
	Amount      decimal.Decimal
}

// RecordPatch is the raw partial-update payload: nil means the field
// was absent and must keep its prior value.
type RecordPatch struct {
	Name        *string
	Description *string
	Category    *string
	RecordType  *string
	Sum         *string
}

// Patch is a validated partial update. Only non-nil fields are applied.
type Patch struct {
	Name        *string
	Description *string
	Category    *Category
	Type        *RecordType
	Amount      *decimal.Decimal
}

// IsEmpty reports whether the patch would change nothing.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Category == nil &&
		p.Type == nil && p.Amount == nil
}

// ParseAmount parses a wire amount into a fixed-point decimal,
// distinguishing unparsable input from out-of-range values.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, ValidationError{Field: "sum", Reason: "is not a valid decimal number"}
	}
	if !d.IsPositive() {
		return decimal.Zero, ValidationError{Field: "sum", Reason: "must be strictly positive"}
	}
	if d.Exponent() < -maxAmountScale {
		return decimal.Zero, ValidationError{Field: "sum", Reason: "must have at most 2 decimal places"}
	}
	if d.GreaterThanOrEqual(maxAmount) {
		return decimal.Zero, ValidationError{Field: "sum", Reason: "exceeds the supported precision"}
	}
	return d, nil
}

func validateName(s string) (string, error) {
	name := strings.TrimSpace(s)
	if name == "" {
		return "", ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if len(name) > maxNameLength {
		return "", ValidationError{Field: "name", Reason: "must not exceed 255 characters"}
	}
	return name, nil
}

// Normalize validates a create payload and produces the record fields
// the store will persist. All failing fields are reported together.
func (c CreateRecord) Normalize() (NewRecord, error) {
	var (
		rec  NewRecord
		errs ValidationErrors
	)

	name, err := validateName(c.Name)
	if err != nil {
		errs = append(errs, err.(ValidationError))
	}
	rec.Name = name

	if c.Description != nil {
		desc := strings.TrimSpace(*c.Description)
		if desc != "" {
			rec.Description = &desc
		}
	}

	if c.Category != nil && *c.Category != "" {
		cat, err := ParseCategory(*c.Category)
		if err != nil {
			errs = append(errs, ValidationError{Field: "category", Reason: "must be one of: food, car, rent"})
		} else {
			rec.Category = &cat
		}
	}

	rt, err := ParseRecordType(c.RecordType)
	if err != nil {
		errs = append(errs, ValidationError{Field: "record_type", Reason: "must be one of: income, expense"})
	}
	rec.Type = rt

	amount, err := ParseAmount(c.Sum)
	if err != nil {
		errs = append(errs, err.(ValidationError))
	}
	rec.Amount = amount

	if len(errs) > 0 {
		return NewRecord{}, errs
	}
	return rec, nil
}

// Normalize validates a partial-update payload. Fields absent from the
// wire stay nil and keep their stored values untouched.
func (p RecordPatch) Normalize() (Patch, error) {
	var (
		patch Patch
		errs  ValidationErrors
	)

	if p.Name != nil {
		name, err := validateName(*p.Name)
		if err != nil {
			errs = append(errs, err.(ValidationError))
		} else {
			patch.Name = &name
		}
	}

	if p.Description != nil {
		desc := strings.TrimSpace(*p.Description)
		patch.Description = &desc
	}

	if p.Category != nil && *p.Category != "" {
		cat, err := ParseCategory(*p.Category)
		if err != nil {
			errs = append(errs, ValidationError{Field: "category", Reason: "must be one of: food, car, rent"})
		} else {
			patch.Category = &cat
		}
	}

	if p.RecordType != nil {
		rt, err := ParseRecordType(*p.RecordType)
		if err != nil {
			errs = append(errs, ValidationError{Field: "record_type", Reason: "must be one of: income, expense"})
		} else {
			patch.Type = &rt
		}
	}

	if p.Sum != nil {
		amount, err := ParseAmount(*p.Sum)
		if err != nil {
			errs = append(errs, err.(ValidationError))
		} else {
			patch.Amount = &amount
		}
	}

	if len(errs) > 0 {
		return Patch{}, errs
	}
	return patch, nil
}
