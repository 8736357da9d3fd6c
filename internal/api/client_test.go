package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"admindash/internal/model"
)

func TestListUsers_DecodesCollection(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/users" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if r.URL.RawQuery != "" {
			t.Errorf("unexpected query parameters: %q", r.URL.RawQuery)
		}
		if r.Header.Get("Authorization") != "" {
			t.Errorf("no auth header should be attached")
		}
		io.WriteString(w, `[{"id":1,"name":"Ann","email":"ann@example.com","role":"admin"}]`)
	}))
	defer srv.Close()

	c := New(srv.URL)
	users, err := c.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 1 || users[0].Name != "Ann" || users[0].ID != "1" {
		t.Fatalf("unexpected users: %+v", users)
	}
}

func TestError_CarriesServerMessage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		io.WriteString(w, `{"message":"email already taken"}`)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.CreateUser(context.Background(), model.UserDraft{Name: "Bob", Email: "b@x", Role: model.RoleUser})
	if err == nil {
		t.Fatalf("expected error")
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *api.Error; got %T", err)
	}
	if apiErr.Status != http.StatusConflict || apiErr.Message != "email already taken" {
		t.Fatalf("unexpected error: %+v", apiErr)
	}
	if apiErr.Error() != "email already taken" {
		t.Fatalf("Error() should prefer the server message; got %q", apiErr.Error())
	}
}

func TestError_GenericWithoutServerMessage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.ListTasks(context.Background())
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *api.Error; got %v", err)
	}
	if apiErr.Message != "" {
		t.Fatalf("plain-text body must not become a message: %q", apiErr.Message)
	}
}

func TestSetTaskStatus_PatchesStatusOnly(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/tasks/3" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"status":"done"}` {
			t.Errorf("unexpected body: %s", body)
		}
		io.WriteString(w, `{"id":3,"title":"T","status":"done","priority":"low"}`)
	}))
	defer srv.Close()

	c := New(srv.URL)
	task, err := c.SetTaskStatus(context.Background(), "3", model.StatusDone)
	if err != nil {
		t.Fatalf("SetTaskStatus: %v", err)
	}
	if task.Status != model.StatusDone {
		t.Fatalf("unexpected task: %+v", task)
	}
}

func TestCache_ReadThroughAndInvalidateOnMutation(t *testing.T) {
	t.Parallel()

	var gets atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			gets.Add(1)
			io.WriteString(w, `[{"id":1,"name":"bolts","quantity":4}]`)
		case http.MethodPost:
			io.WriteString(w, `{"id":2,"name":"nuts","quantity":1}`)
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := c.ListInventory(ctx); err != nil {
			t.Fatalf("ListInventory: %v", err)
		}
	}
	if got := gets.Load(); got != 1 {
		t.Fatalf("repeated lists should read through cache: %d backend GETs", got)
	}

	q := 1
	if _, err := c.CreateItem(ctx, model.ItemDraft{Name: "nuts", Quantity: &q}); err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if _, err := c.ListInventory(ctx); err != nil {
		t.Fatalf("ListInventory after create: %v", err)
	}
	if got := gets.Load(); got != 2 {
		t.Fatalf("mutation should invalidate the cache: %d backend GETs", got)
	}

	c.Invalidate(ResourceInventory)
	if _, err := c.ListInventory(ctx); err != nil {
		t.Fatalf("ListInventory after invalidate: %v", err)
	}
	if got := gets.Load(); got != 3 {
		t.Fatalf("explicit invalidate should force a backend GET: %d", got)
	}
}

func TestListErrorLeavesCacheEmpty(t *testing.T) {
	t.Parallel()

	var fail atomic.Bool
	fail.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	c := New(srv.URL)
	if _, err := c.ListUsers(context.Background()); err == nil {
		t.Fatalf("expected failure")
	}
	fail.Store(false)
	users, err := c.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("second ListUsers: %v", err)
	}
	if len(users) != 0 {
		t.Fatalf("unexpected users: %+v", users)
	}
}
