package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"finledger/internal/core"
)

func TestListSuccess(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/items" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("record_type"); got != "expense" {
			t.Errorf("record_type = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[{"id":1,"name":"Groceries","description":null,"category":"food","record_type":"expense","sum":"45.5","created_at":"2026-08-01T10:00:00Z","updated_at":"2026-08-01T10:00:00Z"}],"total":7,"skip":0,"limit":100}`))
	}))
	defer backend.Close()

	c := New(backend.URL, 5*time.Second)
	expense := core.Expense
	list, err := c.List(context.Background(), core.Filter{Type: &expense}, 0, 100)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if list.Total != 7 {
		t.Errorf("total = %d, want 7", list.Total)
	}
	if len(list.Items) != 1 || list.Items[0].Name != "Groceries" {
		t.Fatalf("items = %+v", list.Items)
	}
	if list.Items[0].Amount.String() != "45.5" {
		t.Errorf("amount = %s", list.Items[0].Amount)
	}
}

func TestGetNotFound(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"item with id 42 not found"}`))
	}))
	defer backend.Close()

	c := New(backend.URL, 5*time.Second)
	_, err := c.Get(context.Background(), 42)

	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
	if nf.ID != 42 {
		t.Errorf("id = %d, want 42", nf.ID)
	}
}

func TestCreateValidationErrors(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":[{"field":"sum","msg":"must be strictly positive"},{"field":"name","msg":"must not be empty"}]}`))
	}))
	defer backend.Close()

	c := New(backend.URL, 5*time.Second)
	_, err := c.Create(context.Background(), CreateItem{Name: "", RecordType: "income", Sum: "-1"})

	var errs core.ValidationErrors
	if !errors.As(err, &errs) {
		t.Fatalf("err = %v, want ValidationErrors", err)
	}
	if len(errs) != 2 {
		t.Fatalf("got %d errors: %v", len(errs), errs)
	}
	if errs[0].Field != "sum" || errs[1].Field != "name" {
		t.Errorf("fields = %q, %q", errs[0].Field, errs[1].Field)
	}
}

func TestConnectionRefusedIsUnavailable(t *testing.T) {
	// A server that is already closed refuses connections.
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	backend.Close()

	c := New(backend.URL, 2*time.Second)
	_, err := c.List(context.Background(), core.Filter{}, 0, 100)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}

func TestSlowBackendIsTimeout(t *testing.T) {
	done := make(chan struct{})
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-done:
		case <-time.After(3 * time.Second):
		}
	}))
	defer func() {
		close(done)
		backend.Close()
	}()

	c := New(backend.URL, 100*time.Millisecond)
	_, err := c.List(context.Background(), core.Filter{}, 0, 100)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
}

func TestDeleteNoContent(t *testing.T) {
	var gotMethod, gotPath string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer backend.Close()

	c := New(backend.URL, 5*time.Second)
	if err := c.Delete(context.Background(), 9); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/items/9" {
		t.Errorf("request = %s %s", gotMethod, gotPath)
	}
}

func TestUnexpectedStatusIsAPIError(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail":"storage failure"}`))
	}))
	defer backend.Close()

	c := New(backend.URL, 5*time.Second)
	_, err := c.Get(context.Background(), 1)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want APIError", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError || apiErr.Detail != "storage failure" {
		t.Errorf("apiErr = %+v", apiErr)
	}
}
