package audit

import "time"

type Action string

const (
	ActionCreate Action = "CREATE"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
	ActionLogin  Action = "LOGIN"
	ActionLogout Action = "LOGOUT"
)

type Log struct {
	ID         string
	UserID     *string
	UserEmail  *string
	Action     Action
	Entity     string
	EntityID   string
	Detail     map[string]any
	IPAddress  string
	OccurredAt time.Time
}
