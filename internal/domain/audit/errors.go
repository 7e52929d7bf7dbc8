package audit

import "errors"

var ErrLogNotFound = errors.New("audit log not found")
