package banktransfer

import "errors"

var (
	ErrTransferNotFound     = errors.New("bank transfer not found")
	ErrTransferNotPending   = errors.New("bank transfer is not pending")
	ErrNoTransfersToProcess = errors.New("no pending transfers to process")
	ErrMissingBankDetails   = errors.New("employee has no bank account details")
)
