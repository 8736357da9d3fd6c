package server

import (
	"context"
	"sort"
	"strconv"
	"sync"
)

// Record is one stored object. Every record carries a numeric "id" field;
// the rest of the fields are whatever the client sent, so the store stays
// agnostic of the three collection schemas.
type Record map[string]any

// Clone returns a shallow copy so handlers can mutate safely.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Store persists the dashboard collections. Implementations must be safe
// for concurrent use.
type Store interface {
	List(ctx context.Context, resource string) ([]Record, error)
	Create(ctx context.Context, resource string, fields Record) (Record, error)
	Replace(ctx context.Context, resource, id string, fields Record) (Record, bool, error)
	Patch(ctx context.Context, resource, id string, fields Record) (Record, bool, error)
	Delete(ctx context.Context, resource, id string) (bool, error)
	Close() error
}

// MemStore keeps everything in process memory. It is the default backend
// for the dev server.
type MemStore struct {
	mu   sync.Mutex
	data map[string][]Record
	next map[string]int64
}

func NewMemStore() *MemStore {
	return &MemStore{
		data: map[string][]Record{},
		next: map[string]int64{},
	}
}

func (s *MemStore) List(_ context.Context, resource string) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs := s.data[resource]
	out := make([]Record, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Clone())
	}
	return out, nil
}

func (s *MemStore) Create(_ context.Context, resource string, fields Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.next[resource] + 1
	for _, r := range s.data[resource] {
		if n, ok := recordID(r); ok && n >= id {
			id = n + 1
		}
	}
	s.next[resource] = id

	rec := fields.Clone()
	rec["id"] = id
	s.data[resource] = append(s.data[resource], rec)
	return rec.Clone(), nil
}

func (s *MemStore) Replace(_ context.Context, resource, id string, fields Record) (Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.find(resource, id)
	if !ok {
		return nil, false, nil
	}
	rec := fields.Clone()
	rec["id"] = s.data[resource][i]["id"]
	s.data[resource][i] = rec
	return rec.Clone(), true, nil
}

func (s *MemStore) Patch(_ context.Context, resource, id string, fields Record) (Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.find(resource, id)
	if !ok {
		return nil, false, nil
	}
	rec := s.data[resource][i]
	for k, v := range fields {
		if k == "id" {
			continue
		}
		rec[k] = v
	}
	return rec.Clone(), true, nil
}

func (s *MemStore) Delete(_ context.Context, resource, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.find(resource, id)
	if !ok {
		return false, nil
	}
	s.data[resource] = append(s.data[resource][:i], s.data[resource][i+1:]...)
	return true, nil
}

func (s *MemStore) Close() error { return nil }

// find assumes s.mu is held.
func (s *MemStore) find(resource, id string) (int, bool) {
	want, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, false
	}
	for i, r := range s.data[resource] {
		if n, ok := recordID(r); ok && n == want {
			return i, true
		}
	}
	return 0, false
}

func recordID(r Record) (int64, bool) {
	switch v := r["id"].(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return int64(v), true
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

func sortByID(recs []Record) {
	sort.SliceStable(recs, func(i, j int) bool {
		a, _ := recordID(recs[i])
		b, _ := recordID(recs[j])
		return a < b
	})
}
