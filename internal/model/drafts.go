package model

// Drafts are the create/update request bodies: the editable fields of an
// entity without its id. Each page owns exactly one draft at a time.

type UserDraft struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

type TaskDraft struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      Status   `json:"status"`
	Priority    Priority `json:"priority"`
	DueDate     string   `json:"dueDate"`
}

// ItemDraft carries Quantity as a pointer: a field that fails loose integer
// parsing is sent as JSON null rather than guarded client-side.
type ItemDraft struct {
	Name     string `json:"name"`
	Quantity *int   `json:"quantity"`
}
