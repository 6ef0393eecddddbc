package engine

import "time"

// Event actions.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionLaunch = "launch"
	ActionSync   = "sync"
)

// Event is one recorded operation on an instance.
type Event struct {
	ID        string            `json:"id"`
	Instance  string            `json:"instance"`
	Action    string            `json:"action"`
	Detail    map[string]string `json:"detail,omitempty"`
	Error     string            `json:"error,omitempty"`
	Duration  time.Duration     `json:"duration"`
	CreatedAt time.Time         `json:"created_at"`
}

// OK reports whether the operation succeeded.
func (e *Event) OK() bool { return e.Error == "" }
