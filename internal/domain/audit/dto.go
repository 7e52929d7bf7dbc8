package audit

import "time"

type LogFilter struct {
	UserID string
	Action Action
	Entity string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

type LogResponse struct {
	ID         string         `json:"id"`
	UserID     *string        `json:"user_id,omitempty"`
	UserEmail  *string        `json:"user_email,omitempty"`
	Action     Action         `json:"action"`
	Entity     string         `json:"entity"`
	EntityID   string         `json:"entity_id"`
	Detail     map[string]any `json:"detail,omitempty"`
	IPAddress  string         `json:"ip_address,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

func ToLogResponse(l *Log) LogResponse {
	return LogResponse{
		ID:         l.ID,
		UserID:     l.UserID,
		UserEmail:  l.UserEmail,
		Action:     l.Action,
		Entity:     l.Entity,
		EntityID:   l.EntityID,
		Detail:     l.Detail,
		IPAddress:  l.IPAddress,
		OccurredAt: l.OccurredAt,
	}
}
