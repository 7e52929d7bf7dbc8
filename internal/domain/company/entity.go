package company

import "time"

type Company struct {
	ID        string
	Name      string
	Code      string
	Address   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
