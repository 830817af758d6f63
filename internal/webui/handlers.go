package webui

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"finledger/internal/client"
	"finledger/internal/core"
)

// pageLimit is how many records the list page shows at once.
const pageLimit = 100

type notice struct {
	Kind    string // "success" or "error"
	Message string
}

// noticeText maps redirect codes to the banner shown after the
// redirect. Unknown codes render nothing, so the query parameter
// cannot be used to inject arbitrary text.
var noticeText = map[string]notice{
	"created":     {Kind: "success", Message: "Record created."},
	"updated":     {Kind: "success", Message: "Record updated."},
	"deleted":     {Kind: "success", Message: "Record deleted."},
	"missing":     {Kind: "error", Message: "That record no longer exists."},
	"unavailable": {Kind: "error", Message: "The record service is unavailable. Please try again later."},
	"timeout":     {Kind: "error", Message: "The record service timed out. Please try again later."},
	"backend":     {Kind: "error", Message: "The record service reported an error. Please try again later."},
}

func noticesFromQuery(r *http.Request) []notice {
	n, ok := noticeText[r.URL.Query().Get("notice")]
	if !ok {
		return nil
	}
	return []notice{n}
}

// backendNoticeCode picks the redirect code for a failed backend call.
func backendNoticeCode(err error) string {
	switch {
	case errors.Is(err, client.ErrTimeout):
		return "timeout"
	case errors.Is(err, client.ErrUnavailable):
		return "unavailable"
	default:
		return "backend"
	}
}

func redirectWithNotice(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, "/?notice="+code, http.StatusSeeOther)
}

type recordView struct {
	ID          int64
	Name        string
	Category    string
	RecordType  string
	Sum         string
	CreatedAt   string
	Description string
}

type totalsView struct {
	Income  string
	Expense string
	Balance string
}

type indexData struct {
	Notices            []notice
	Totals             totalsView
	Categories         []string
	RecordTypes        []string
	SelectedCategory   string
	SelectedRecordType string
	Items              []recordView
	TotalCount         int64
}

// formValues carries the raw form input back into the template so a
// failed submission does not wipe what the user typed.
type formValues struct {
	Name        string
	Description string
	Category    string
	RecordType  string
	Sum         string
}

type formData struct {
	ID          int64
	Notices     []notice
	Categories  []string
	RecordTypes []string
	Form        formValues
	Errors      core.ValidationErrors
}

// FieldError returns the validation message for one form field, or
// the empty string when the field is fine.
func (d formData) FieldError(field string) string {
	for _, e := range d.Errors {
		if e.Field == field {
			return e.Reason
		}
	}
	return ""
}

func categoryNames() []string {
	cats := core.Categories()
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = string(c)
	}
	return out
}

func recordTypeNames() []string {
	types := core.RecordTypes()
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}

// uiFilter builds the backend filter from the list page's query
// parameters. Values that are not a known category or record type are
// dropped rather than rejected: the page always renders, and only
// recognized filters go over the wire.
func uiFilter(r *http.Request) (core.Filter, string, string) {
	var (
		f            core.Filter
		selCategory  string
		selRecordTyp string
	)
	if raw := r.URL.Query().Get("category"); raw != "" {
		if c, err := core.ParseCategory(raw); err == nil {
			f.Category = &c
			selCategory = raw
		}
	}
	if raw := r.URL.Query().Get("record_type"); raw != "" {
		if t, err := core.ParseRecordType(raw); err == nil {
			f.Type = &t
			selRecordTyp = raw
		}
	}
	return f, selCategory, selRecordTyp
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	filter, selCategory, selRecordType := uiFilter(r)

	data := indexData{
		Notices:            noticesFromQuery(r),
		Categories:         categoryNames(),
		RecordTypes:        recordTypeNames(),
		SelectedCategory:   selCategory,
		SelectedRecordType: selRecordType,
		Totals:             totalsView{Income: "0.00", Expense: "0.00", Balance: "0.00"},
	}

	list, err := s.backend.List(r.Context(), filter, 0, pageLimit)
	if err != nil {
		slog.ErrorContext(r.Context(), "listing records failed", "error", err)
		data.Notices = append(data.Notices, noticeText[backendNoticeCode(err)])
		s.render(w, "index.html", data)
		return
	}

	totals := core.Aggregate(list.Items)
	data.Totals = totalsView{
		Income:  totals.Income.StringFixed(2),
		Expense: totals.Expense.StringFixed(2),
		Balance: totals.Balance.StringFixed(2),
	}
	data.TotalCount = list.Total
	data.Items = make([]recordView, 0, len(list.Items))
	for _, rec := range list.Items {
		view := recordView{
			ID:         rec.ID,
			Name:       rec.Name,
			RecordType: string(rec.Type),
			Sum:        rec.Amount.StringFixed(2),
			CreatedAt:  rec.CreatedAt.Format("2006-01-02"),
		}
		if rec.Category != nil {
			view.Category = string(*rec.Category)
		}
		if rec.Description != nil {
			view.Description = *rec.Description
		}
		data.Items = append(data.Items, view)
	}

	s.render(w, "index.html", data)
}

func (s *Server) handleCreateForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, "create.html", formData{
		Notices:     noticesFromQuery(r),
		Categories:  categoryNames(),
		RecordTypes: recordTypeNames(),
		Form:        formValues{RecordType: string(core.Expense)},
	})
}

func (s *Server) handleCreateSubmit(w http.ResponseWriter, r *http.Request) {
	form := readForm(r)

	// Validate locally first so the user gets field-level messages
	// without a backend round trip.
	create := core.CreateRecord{
		Name:       form.Name,
		RecordType: form.RecordType,
		Sum:        form.Sum,
	}
	if form.Description != "" {
		create.Description = &form.Description
	}
	if form.Category != "" {
		create.Category = &form.Category
	}

	if _, err := create.Normalize(); err != nil {
		var verrs core.ValidationErrors
		if !errors.As(err, &verrs) {
			verrs = core.ValidationErrors{{Field: "name", Reason: err.Error()}}
		}
		s.render(w, "create.html", formData{
			Categories:  categoryNames(),
			RecordTypes: recordTypeNames(),
			Form:        form,
			Errors:      verrs,
		})
		return
	}

	_, err := s.backend.Create(r.Context(), client.CreateItem{
		Name:        create.Name,
		Description: create.Description,
		Category:    create.Category,
		RecordType:  create.RecordType,
		Sum:         strings.TrimSpace(create.Sum),
	})
	if err != nil {
		slog.ErrorContext(r.Context(), "creating record failed", "error", err)
		s.render(w, "create.html", formData{
			Notices:     []notice{noticeText[backendNoticeCode(err)]},
			Categories:  categoryNames(),
			RecordTypes: recordTypeNames(),
			Form:        form,
		})
		return
	}

	redirectWithNotice(w, r, "created")
}

func (s *Server) handleEditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	rec, err := s.backend.Get(r.Context(), id)
	if err != nil {
		var notFound *client.NotFoundError
		if errors.As(err, &notFound) {
			redirectWithNotice(w, r, "missing")
			return
		}
		slog.ErrorContext(r.Context(), "loading record failed", "id", id, "error", err)
		redirectWithNotice(w, r, backendNoticeCode(err))
		return
	}

	form := formValues{
		Name:       rec.Name,
		RecordType: string(rec.Type),
		Sum:        rec.Amount.String(),
	}
	if rec.Description != nil {
		form.Description = *rec.Description
	}
	if rec.Category != nil {
		form.Category = string(*rec.Category)
	}

	s.render(w, "edit.html", formData{
		ID:          id,
		Notices:     noticesFromQuery(r),
		Categories:  categoryNames(),
		RecordTypes: recordTypeNames(),
		Form:        form,
	})
}

func (s *Server) handleEditSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	form := readForm(r)

	patch := core.RecordPatch{
		Name:        &form.Name,
		Description: &form.Description,
		RecordType:  &form.RecordType,
		Sum:         &form.Sum,
	}
	// An empty category select means "leave the stored category
	// alone"; there is no way to clear it from the UI.
	if form.Category != "" {
		patch.Category = &form.Category
	}

	if _, err := patch.Normalize(); err != nil {
		var verrs core.ValidationErrors
		if !errors.As(err, &verrs) {
			verrs = core.ValidationErrors{{Field: "name", Reason: err.Error()}}
		}
		s.render(w, "edit.html", formData{
			ID:          id,
			Categories:  categoryNames(),
			RecordTypes: recordTypeNames(),
			Form:        form,
			Errors:      verrs,
		})
		return
	}

	update := client.UpdateItem{
		Name:        patch.Name,
		Description: patch.Description,
		Category:    patch.Category,
		RecordType:  patch.RecordType,
		Sum:         patch.Sum,
	}
	if _, err := s.backend.Update(r.Context(), id, update); err != nil {
		var notFound *client.NotFoundError
		if errors.As(err, &notFound) {
			redirectWithNotice(w, r, "missing")
			return
		}
		slog.ErrorContext(r.Context(), "updating record failed", "id", id, "error", err)
		s.render(w, "edit.html", formData{
			ID:          id,
			Notices:     []notice{noticeText[backendNoticeCode(err)]},
			Categories:  categoryNames(),
			RecordTypes: recordTypeNames(),
			Form:        form,
		})
		return
	}

	redirectWithNotice(w, r, "updated")
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.backend.Delete(r.Context(), id); err != nil {
		var notFound *client.NotFoundError
		if errors.As(err, &notFound) {
			// Already gone; treat the delete as done.
			redirectWithNotice(w, r, "missing")
			return
		}
		slog.ErrorContext(r.Context(), "deleting record failed", "id", id, "error", err)
		redirectWithNotice(w, r, backendNoticeCode(err))
		return
	}

	redirectWithNotice(w, r, "deleted")
}

func readForm(r *http.Request) formValues {
	_ = r.ParseForm()
	return formValues{
		Name:        strings.TrimSpace(r.PostFormValue("name")),
		Description: strings.TrimSpace(r.PostFormValue("description")),
		Category:    r.PostFormValue("category"),
		RecordType:  r.PostFormValue("record_type"),
		Sum:         strings.TrimSpace(r.PostFormValue("sum")),
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		http.NotFound(w, r)
		return 0, false
	}
	return id, true
}
