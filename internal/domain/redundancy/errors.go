package redundancy

import "errors"

var (
	ErrRedundancyNotFound  = errors.New("redundancy record not found")
	ErrRedundancyNotDraft  = errors.New("redundancy record is not in draft status")
	ErrNotApproved         = errors.New("redundancy record is not approved")
	ErrAlreadyPaid         = errors.New("redundancy record already paid")
	ErrNoJoinDate          = errors.New("employee has no join date on record")
	ErrInsufficientService = errors.New("employee has less than two years of service")
)
