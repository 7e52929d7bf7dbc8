package storage

import (
	"context"
	"io"
)

// Archive keeps generated payslip documents so they can be re-served
// without rendering again.
type Archive interface {
	// Store writes a document under key and returns the stored key.
	Store(ctx context.Context, key string, doc io.Reader) (string, error)

	// Open retrieves a stored document.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Exists reports whether a document is archived under key.
	Exists(ctx context.Context, key string) (bool, error)

	// Delete removes a stored document. Deleting a missing key is not
	// an error.
	Delete(ctx context.Context, key string) error
}

// PayslipKey is the archive key for one employee's payslip in a period.
func PayslipKey(period, employeeCode string) string {
	return "payslips/" + period + "/" + employeeCode + ".pdf"
}
