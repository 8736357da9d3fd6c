package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ID is a backend-assigned entity key. json-server style backends hand out
// numeric ids but accept string ids too, so we keep the raw token and only
// interpret it numerically where ordering needs it.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*id = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*id = ID(v)
		return nil
	}
	*id = ID(s)
	return nil
}

func (id ID) MarshalJSON() ([]byte, error) {
	if n, ok := id.Num(); ok {
		return []byte(strconv.FormatInt(n, 10)), nil
	}
	return json.Marshal(string(id))
}

// Num reports the id's numeric value when the whole token is an integer.
func (id ID) Num() (int64, bool) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (id ID) IsZero() bool { return id == "" }

// Less orders ids numerically when both sides are numeric, else by string.
func (a ID) Less(b ID) bool {
	an, aok := a.Num()
	bn, bok := b.Num()
	if aok && bok {
		return an < bn
	}
	return a < b
}

type Role string

const (
	RoleUser   Role = "user"
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
)

func Roles() []Role { return []Role{RoleUser, RoleAdmin, RoleEditor} }

type User struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// DisplayRole defaults an absent role to "user".
func (u User) DisplayRole() Role {
	if u.Role == "" {
		return RoleUser
	}
	return u.Role
}

type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

func Statuses() []Status { return []Status{StatusTodo, StatusInProgress, StatusDone} }

// Label renders a status for display ("in-progress" -> "in progress").
func (s Status) Label() string { return strings.ReplaceAll(string(s), "-", " ") }

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func Priorities() []Priority { return []Priority{PriorityHigh, PriorityMedium, PriorityLow} }

type Task struct {
	ID          ID       `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      Status   `json:"status"`
	Priority    Priority `json:"priority"`
	// DueDate is an ISO date string (YYYY-MM-DD) or empty.
	DueDate string `json:"dueDate"`
}

// DisplayPriority defaults an absent priority to "medium".
func (t Task) DisplayPriority() Priority {
	if t.Priority == "" {
		return PriorityMedium
	}
	return t.Priority
}

type InventoryItem struct {
	ID       ID     `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// ParseQuantity parses a quantity text field with leading-integer semantics:
// "12abc" yields 12, "  -3 " yields -3, and input with no leading integer
// yields nil (serialized as JSON null, sent to the backend unguarded).
func ParseQuantity(s string) *int {
	s = strings.TrimSpace(s)
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	j := i
	for j < len(s) && s[j] >= '0' && s[j] <= '9' {
		j++
	}
	if j == i {
		return nil
	}
	n, err := strconv.Atoi(s[:j])
	if err != nil {
		return nil
	}
	return &n
}
