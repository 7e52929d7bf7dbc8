package company

import "errors"

var (
	ErrCompanyNotFound   = errors.New("company not found")
	ErrCompanyCodeExists = errors.New("company code already exists")
)
