package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
)

func doJSON(t *testing.T, e http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var decoded map[string]any
	if strings.HasPrefix(rec.Body.String(), "{") {
		if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("decode %s %s response: %v", method, path, err)
		}
	}
	return rec, decoded
}

func listOf(t *testing.T, e http.Handler, resource string) []map[string]any {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/"+resource, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /%s = %d, want 200", resource, rec.Code)
	}
	var out []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	return out
}

func TestCRUDLifecycle(t *testing.T) {
	e := New(NewMemStore())

	if got := listOf(t, e, "users"); len(got) != 0 {
		t.Fatalf("fresh store lists %d users, want 0", len(got))
	}

	rec, created := doJSON(t, e, http.MethodPost, "/users",
		`{"name":"Ada","email":"ada@example.com","role":"admin"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /users = %d, want 201", rec.Code)
	}
	if created["id"] == nil {
		t.Fatalf("created record has no id: %v", created)
	}

	rec, updated := doJSON(t, e, http.MethodPut, "/users/1",
		`{"name":"Ada L.","email":"ada@example.com","role":"admin"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT /users/1 = %d, want 200", rec.Code)
	}
	if updated["name"] != "Ada L." {
		t.Fatalf("PUT did not replace name: %v", updated)
	}

	got := listOf(t, e, "users")
	if len(got) != 1 || got[0]["name"] != "Ada L." {
		t.Fatalf("list after update = %v", got)
	}

	rec, _ = doJSON(t, e, http.MethodDelete, "/users/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("DELETE /users/1 = %d, want 200", rec.Code)
	}
	if got := listOf(t, e, "users"); len(got) != 0 {
		t.Fatalf("list after delete = %v", got)
	}
}

func TestValidationMessage(t *testing.T) {
	e := New(NewMemStore())

	rec, body := doJSON(t, e, http.MethodPost, "/users", `{"email":"x@example.com"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("POST without name = %d, want 400", rec.Code)
	}
	if body["message"] != "name is required" {
		t.Fatalf("message = %v", body["message"])
	}

	rec, body = doJSON(t, e, http.MethodPost, "/tasks", `{"description":"no title"}`)
	if rec.Code != http.StatusBadRequest || body["message"] != "title is required" {
		t.Fatalf("task validation: code=%d message=%v", rec.Code, body["message"])
	}
}

func TestNotFoundMessage(t *testing.T) {
	e := New(NewMemStore())

	rec, body := doJSON(t, e, http.MethodDelete, "/tasks/42", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("DELETE missing task = %d, want 404", rec.Code)
	}
	if body["message"] != "tasks 42 not found" {
		t.Fatalf("message = %v", body["message"])
	}
}

func TestPatchMergesFields(t *testing.T) {
	e := New(NewMemStore())

	doJSON(t, e, http.MethodPost, "/tasks",
		`{"title":"Ship it","description":"soon","status":"todo","priority":"high","dueDate":""}`)

	rec, patched := doJSON(t, e, http.MethodPatch, "/tasks/1", `{"status":"done"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("PATCH /tasks/1 = %d, want 200", rec.Code)
	}
	if patched["status"] != "done" || patched["title"] != "Ship it" {
		t.Fatalf("patch result = %v", patched)
	}
}

func TestNullQuantityRoundTrip(t *testing.T) {
	e := New(NewMemStore())

	rec, created := doJSON(t, e, http.MethodPost, "/inventory", `{"name":"bolts","quantity":null}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /inventory = %d, want 201", rec.Code)
	}
	if v, ok := created["quantity"]; !ok || v != nil {
		t.Fatalf("quantity = %v, want explicit null", v)
	}

	got := listOf(t, e, "inventory")
	if len(got) != 1 {
		t.Fatalf("inventory length = %d", len(got))
	}
	if v, ok := got[0]["quantity"]; !ok || v != nil {
		t.Fatalf("listed quantity = %v, want null", v)
	}
}

func TestIDsKeepClimbingAfterDelete(t *testing.T) {
	st := NewMemStore()
	ctx := context.Background()

	a, _ := st.Create(ctx, "tasks", Record{"title": "a"})
	b, _ := st.Create(ctx, "tasks", Record{"title": "b"})
	if _, err := st.Delete(ctx, "tasks", "2"); err != nil {
		t.Fatal(err)
	}
	c, _ := st.Create(ctx, "tasks", Record{"title": "c"})

	ids := []int64{}
	for _, r := range []Record{a, b, c} {
		n, _ := recordID(r)
		ids = append(ids, n)
	}
	if ids[0] != 1 || ids[1] != 2 || ids[2] != 3 {
		t.Fatalf("ids = %v, want [1 2 3]", ids)
	}
}

func TestSeedOnlyFillsEmptyCollections(t *testing.T) {
	st := NewMemStore()
	ctx := context.Background()

	if _, err := st.Create(ctx, "users", Record{"name": "Keep", "email": "k@example.com"}); err != nil {
		t.Fatal(err)
	}
	if err := Seed(ctx, st); err != nil {
		t.Fatal(err)
	}

	users, _ := st.List(ctx, "users")
	if len(users) != 1 {
		t.Fatalf("seed overwrote users: %d records", len(users))
	}
	tasks, _ := st.List(ctx, "tasks")
	if len(tasks) == 0 {
		t.Fatal("seed left tasks empty")
	}
}

func TestSQLiteStoreLifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "admindash.sqlite")
	st, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	ctx := context.Background()

	created, err := st.Create(ctx, "inventory", Record{"name": "bolts", "quantity": nil})
	if err != nil {
		t.Fatal(err)
	}
	if n, _ := recordID(created); n != 1 {
		t.Fatalf("first id = %v", created["id"])
	}

	if _, ok, err := st.Replace(ctx, "inventory", "1", Record{"name": "nuts", "quantity": 7}); err != nil || !ok {
		t.Fatalf("replace: ok=%v err=%v", ok, err)
	}
	if _, ok, err := st.Patch(ctx, "inventory", "1", Record{"quantity": 8}); err != nil || !ok {
		t.Fatalf("patch: ok=%v err=%v", ok, err)
	}

	recs, err := st.List(ctx, "inventory")
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0]["name"] != "nuts" {
		t.Fatalf("list = %v", recs)
	}
	if q, ok := recs[0]["quantity"].(float64); !ok || q != 8 {
		t.Fatalf("quantity = %v", recs[0]["quantity"])
	}

	if ok, err := st.Delete(ctx, "inventory", "1"); err != nil || !ok {
		t.Fatalf("delete: ok=%v err=%v", ok, err)
	}
	if ok, err := st.Delete(ctx, "inventory", "1"); err != nil || ok {
		t.Fatalf("second delete: ok=%v err=%v", ok, err)
	}
}
