package advance

import "errors"

var (
	ErrAdvanceNotFound    = errors.New("advance payment not found")
	ErrAdvanceNotPending  = errors.New("advance payment is not pending")
	ErrAdvanceNotApproved = errors.New("advance payment is not approved")
	ErrAdvanceRecovered   = errors.New("advance payment already recovered")
)
