package transaction

import "errors"

var (
	ErrTransactionNotFound    = errors.New("transaction not found")
	ErrTransactionNotEditable = errors.New("only ENTERED transactions can be modified")
	ErrInvalidType            = errors.New("invalid transaction type")
	ErrNotEntered             = errors.New("only ENTERED transactions can be posted")
	ErrAlreadyProcessed       = errors.New("transaction already processed")
)
