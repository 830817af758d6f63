package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"finledger/internal/core"
	"finledger/internal/services"
)

// itemPayload is the wire shape shared by create and update bodies.
// Every field is optional at the decoding layer; create-required
// fields are enforced by validation, not by the decoder.
type itemPayload struct {
	Name        *string         `json:"name"`
	Description *string         `json:"description"`
	Category    *string         `json:"category"`
	RecordType  *string         `json:"record_type"`
	Sum         json.RawMessage `json:"sum"`
}

var errBadBody = errors.New("request body is not valid JSON")

func decodeItemPayload(r *http.Request) (itemPayload, error) {
	var p itemPayload
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		return itemPayload{}, fmt.Errorf("read body: %w", err)
	}
	if len(body) == 0 {
		return p, nil
	}
	if err := json.Unmarshal(body, &p); err != nil {
		return itemPayload{}, errBadBody
	}
	return p, nil
}

// sumString renders the raw sum value to the string the validator
// parses. JSON numbers and quoted decimal strings are both accepted,
// nil means the field was absent.
func (p itemPayload) sumString() *string {
	if p.Sum == nil || string(p.Sum) == "null" {
		return nil
	}
	raw := string(p.Sum)
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(p.Sum, &s); err != nil {
			return &raw // leave it for the validator to reject
		}
		return &s
	}
	return &raw
}

func (p itemPayload) toCreate() core.CreateRecord {
	c := core.CreateRecord{
		Description: p.Description,
		Category:    p.Category,
	}
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.RecordType != nil {
		c.RecordType = *p.RecordType
	}
	if sum := p.sumString(); sum != nil {
		c.Sum = *sum
	}
	return c
}

func (p itemPayload) toPatch() core.RecordPatch {
	return core.RecordPatch{
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		RecordType:  p.RecordType,
		Sum:         p.sumString(),
	}
}

// parseItemID extracts the {id} path value.
func parseItemID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, core.ValidationErrors{{Field: "id", Reason: "must be an integer"}}
	}
	return id, nil
}

// parseListParams validates skip/limit/category/record_type query
// parameters, accumulating every rejection so the caller sees them
// all at once. Unknown filter values are rejected, not ignored.
func parseListParams(query url.Values) (core.Filter, int, int, error) {
	var errs core.ValidationErrors

	skip := 0
	if v := strings.TrimSpace(query.Get("skip")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, core.ValidationError{Field: "skip", Reason: "must be an integer"})
		} else {
			skip = n
		}
	}

	limit := services.DefaultLimit
	if v := strings.TrimSpace(query.Get("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, core.ValidationError{Field: "limit", Reason: "must be an integer"})
		} else {
			limit = n
		}
	}

	filter, err := core.ParseFilter(query.Get("category"), query.Get("record_type"))
	var filterErrs core.ValidationErrors
	if errors.As(err, &filterErrs) {
		errs = append(errs, filterErrs...)
	}

	if len(errs) > 0 {
		return core.Filter{}, 0, 0, errs
	}
	return filter, skip, limit, nil
}
