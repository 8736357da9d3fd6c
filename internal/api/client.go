// Package api is the REST client for the dashboard backend.
//
// The backend is an external collaborator exposing conventional JSON CRUD
// endpoints on /users, /tasks and /inventory. Requests carry no auth header
// and no query parameters; all filtering happens client-side. There is no
// retry and no timeout beyond the caller's context.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"admindash/internal/model"
)

const DefaultBaseURL = "http://localhost:3001"

const (
	ResourceUsers     = "users"
	ResourceTasks     = "tasks"
	ResourceInventory = "inventory"
)

type Client struct {
	base  string
	httpc *http.Client
	cache *collectionCache
}

func New(base string) *Client {
	if strings.TrimSpace(base) == "" {
		base = DefaultBaseURL
	}
	return &Client{
		base:  strings.TrimRight(base, "/"),
		httpc: &http.Client{},
		cache: newCollectionCache(),
	}
}

// Invalidate drops a cached collection so the next list call hits the
// backend. User-triggered refreshes invalidate first; mount-time fetches read
// through whatever is already cached.
func (c *Client) Invalidate(resource string) { c.cache.invalidate(resource) }

func (c *Client) InvalidateAll() {
	for _, r := range []string{ResourceUsers, ResourceTasks, ResourceInventory} {
		c.cache.invalidate(r)
	}
}

// Error is a failed backend call: a transport failure has Status 0, a non-2xx
// response carries the HTTP status and the server-supplied message when the
// body decodes as {"message": ...}.
type Error struct {
	Resource string
	Status   int
	Message  string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Status > 0 {
		return fmt.Sprintf("%s: %s", e.Resource, http.StatusText(e.Status))
	}
	return fmt.Sprintf("%s: request failed", e.Resource)
}

func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	var out []model.User
	if err := c.list(ctx, ResourceUsers, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateUser(ctx context.Context, d model.UserDraft) (model.User, error) {
	var u model.User
	err := c.mutate(ctx, http.MethodPost, ResourceUsers, "", d, &u)
	return u, err
}

func (c *Client) UpdateUser(ctx context.Context, id model.ID, d model.UserDraft) (model.User, error) {
	var u model.User
	err := c.mutate(ctx, http.MethodPut, ResourceUsers, string(id), d, &u)
	return u, err
}

func (c *Client) DeleteUser(ctx context.Context, id model.ID) error {
	return c.mutate(ctx, http.MethodDelete, ResourceUsers, string(id), nil, nil)
}

func (c *Client) ListTasks(ctx context.Context) ([]model.Task, error) {
	var out []model.Task
	if err := c.list(ctx, ResourceTasks, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateTask(ctx context.Context, d model.TaskDraft) (model.Task, error) {
	var t model.Task
	err := c.mutate(ctx, http.MethodPost, ResourceTasks, "", d, &t)
	return t, err
}

func (c *Client) UpdateTask(ctx context.Context, id model.ID, d model.TaskDraft) (model.Task, error) {
	var t model.Task
	err := c.mutate(ctx, http.MethodPut, ResourceTasks, string(id), d, &t)
	return t, err
}

// SetTaskStatus issues a partial update of the status field only, outside the
// draft/edit flow.
func (c *Client) SetTaskStatus(ctx context.Context, id model.ID, status model.Status) (model.Task, error) {
	var t model.Task
	body := struct {
		Status model.Status `json:"status"`
	}{Status: status}
	err := c.mutate(ctx, http.MethodPatch, ResourceTasks, string(id), body, &t)
	return t, err
}

func (c *Client) DeleteTask(ctx context.Context, id model.ID) error {
	return c.mutate(ctx, http.MethodDelete, ResourceTasks, string(id), nil, nil)
}

func (c *Client) ListInventory(ctx context.Context) ([]model.InventoryItem, error) {
	var out []model.InventoryItem
	if err := c.list(ctx, ResourceInventory, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateItem(ctx context.Context, d model.ItemDraft) (model.InventoryItem, error) {
	var it model.InventoryItem
	err := c.mutate(ctx, http.MethodPost, ResourceInventory, "", d, &it)
	return it, err
}

func (c *Client) UpdateItem(ctx context.Context, id model.ID, d model.ItemDraft) (model.InventoryItem, error) {
	var it model.InventoryItem
	err := c.mutate(ctx, http.MethodPut, ResourceInventory, string(id), d, &it)
	return it, err
}

func (c *Client) DeleteItem(ctx context.Context, id model.ID) error {
	return c.mutate(ctx, http.MethodDelete, ResourceInventory, string(id), nil, nil)
}

// list fetches a full collection, reading through the shared cache so that
// the dashboard, the sidebar and the pages don't each hit the backend for
// data nothing has invalidated.
func (c *Client) list(ctx context.Context, resource string, out any) error {
	if raw, ok := c.cache.get(resource); ok {
		return json.Unmarshal(raw, out)
	}
	raw, err := c.fetch(ctx, resource)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{Resource: resource, Message: "invalid response body"}
	}
	c.cache.put(resource, raw)
	return nil
}

func (c *Client) fetch(ctx context.Context, resource string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/"+resource, nil)
	if err != nil {
		return nil, &Error{Resource: resource}
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &Error{Resource: resource}
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{Resource: resource, Status: resp.StatusCode, Message: serverMessage(body)}
	}
	return body, nil
}

// mutate performs a write and invalidates the resource's cached collection so
// the follow-up refresh observes the backend's state.
func (c *Client) mutate(ctx context.Context, method, resource, id string, body any, out any) error {
	url := c.base + "/" + resource
	if id != "" {
		url += "/" + id
	}
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return &Error{Resource: resource, Message: "invalid request body"}
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, rd)
	if err != nil {
		return &Error{Resource: resource}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return &Error{Resource: resource}
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Resource: resource, Status: resp.StatusCode, Message: serverMessage(respBody)}
	}
	c.cache.invalidate(resource)
	if out != nil && len(bytes.TrimSpace(respBody)) > 0 {
		// Tolerate ack-only responses; the caller refreshes anyway.
		_ = json.Unmarshal(respBody, out)
	}
	return nil
}

func serverMessage(body []byte) string {
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	return strings.TrimSpace(envelope.Message)
}
