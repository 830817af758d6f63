package core

// Filter is a conjunctive set of optional equality constraints applied
// when listing records. A nil field means no constraint.
type Filter struct {
	Category *Category
	Type     *RecordType
}

// IsZero reports whether the filter constrains nothing.
func (f Filter) IsZero() bool {
	return f.Category == nil && f.Type == nil
}

// ParseFilter validates raw query-string filter values. Unrecognized
// enum values are rejected rather than silently ignored, matching the
// create/update validation policy.
func ParseFilter(category, recordType string) (Filter, error) {
	var (
		f    Filter
		errs ValidationErrors
	)

	if category != "" {
		cat, err := ParseCategory(category)
		if err != nil {
			errs = append(errs, ValidationError{Field: "category", Reason: "must be one of: food, car, rent"})
		} else {
			f.Category = &cat
		}
	}

	if recordType != "" {
		rt, err := ParseRecordType(recordType)
		if err != nil {
			errs = append(errs, ValidationError{Field: "record_type", Reason: "must be one of: income, expense"})
		} else {
			f.Type = &rt
		}
	}

	if len(errs) > 0 {
		return Filter{}, errs
	}
	return f, nil
}
