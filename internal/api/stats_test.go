package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"admindash/internal/model"
)

func statsBackend(t *testing.T, tasksJSON string, failInventory bool) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users":
			io.WriteString(w, `[{"id":1,"name":"Ann","email":"a@x","role":"admin"},{"id":2,"name":"Bob","email":"b@x","role":"user"}]`)
		case "/tasks":
			io.WriteString(w, tasksJSON)
		case "/inventory":
			if failInventory {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			io.WriteString(w, `[{"id":1,"name":"bolts","quantity":4}]`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
}

func TestDashboardStats_Aggregates(t *testing.T) {
	t.Parallel()

	tasks := `[
		{"id":1,"title":"one","status":"done","priority":"low"},
		{"id":2,"title":"two","status":"todo","priority":"high"},
		{"id":10,"title":"ten","status":"in-progress","priority":"medium"},
		{"id":3,"title":"three","status":"todo","priority":"low"},
		{"id":4,"title":"four","status":"done","priority":"low"},
		{"id":5,"title":"five","status":"todo","priority":"low"},
		{"id":6,"title":"six","status":"todo","priority":"low"}
	]`
	srv := statsBackend(t, tasks, false)
	defer srv.Close()

	stats, err := New(srv.URL).DashboardStats(context.Background())
	if err != nil {
		t.Fatalf("DashboardStats: %v", err)
	}
	if stats.Users != 2 || stats.Inventory != 1 {
		t.Fatalf("counts: %+v", stats)
	}
	if stats.ActiveTasks != 5 {
		t.Fatalf("ActiveTasks = %d; want 5 (status != done)", stats.ActiveTasks)
	}
	if len(stats.RecentTasks) != 5 {
		t.Fatalf("RecentTasks length = %d; want 5", len(stats.RecentTasks))
	}
	// Descending numeric id, not lexical: 10 first.
	wantOrder := []model.ID{"10", "6", "5", "4", "3"}
	for i, want := range wantOrder {
		if stats.RecentTasks[i].ID != want {
			t.Fatalf("RecentTasks[%d].ID = %q; want %q", i, stats.RecentTasks[i].ID, want)
		}
	}
}

func TestDashboardStats_AllOrNothing(t *testing.T) {
	t.Parallel()

	srv := statsBackend(t, `[{"id":1,"title":"one","status":"todo","priority":"low"}]`, true)
	defer srv.Close()

	stats, err := New(srv.URL).DashboardStats(context.Background())
	if err == nil {
		t.Fatalf("expected batch failure when one fetch fails")
	}
	if stats.Users != 0 || stats.ActiveTasks != 0 || stats.Inventory != 0 || stats.RecentTasks != nil {
		t.Fatalf("failed batch must not carry partial results: %+v", stats)
	}
}

func TestSidebarCounts(t *testing.T) {
	t.Parallel()

	srv := statsBackend(t, `[{"id":1,"title":"one","status":"done","priority":"low"}]`, false)
	defer srv.Close()

	counts, err := New(srv.URL).SidebarCounts(context.Background())
	if err != nil {
		t.Fatalf("SidebarCounts: %v", err)
	}
	if counts.Users != 2 || counts.Tasks != 1 || counts.Inventory != 1 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
}
