package response

import (
	"errors"
	"net/http"

	"github.com/islandhr/payroll-backend-go/internal/domain/advance"
	"github.com/islandhr/payroll-backend-go/internal/domain/audit"
	"github.com/islandhr/payroll-backend-go/internal/domain/auth"
	"github.com/islandhr/payroll-backend-go/internal/domain/banktransfer"
	"github.com/islandhr/payroll-backend-go/internal/domain/company"
	"github.com/islandhr/payroll-backend-go/internal/domain/employee"
	"github.com/islandhr/payroll-backend-go/internal/domain/payroll"
	"github.com/islandhr/payroll-backend-go/internal/domain/processing"
	"github.com/islandhr/payroll-backend-go/internal/domain/redundancy"
	"github.com/islandhr/payroll-backend-go/internal/domain/transaction"
	"github.com/islandhr/payroll-backend-go/internal/domain/user"
	"github.com/islandhr/payroll-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or missing token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrUserInactive):
		Forbidden(w, "User account is inactive")
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrAdminAccessRequired):
		Forbidden(w, "Admin access required")
	case errors.Is(err, user.ErrPayrollAccessRequired):
		Forbidden(w, "Payroll access required")

	// Company domain errors
	case errors.Is(err, company.ErrCompanyNotFound):
		NotFound(w, "Company not found")
	case errors.Is(err, company.ErrCompanyCodeExists):
		Conflict(w, "Company code already exists")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeCodeExists):
		Conflict(w, "Employee code already exists")
	case errors.Is(err, employee.ErrEmailExists):
		Conflict(w, "Email already registered for this company")
	case errors.Is(err, employee.ErrEmployeeHasPayrolls):
		Conflict(w, "Employee has payroll history and cannot be deleted")
	case errors.Is(err, employee.ErrEmployeeTerminated):
		Conflict(w, "Employee is terminated")

	// Transaction domain errors
	case errors.Is(err, transaction.ErrTransactionNotFound):
		NotFound(w, "Transaction not found")
	case errors.Is(err, transaction.ErrTransactionNotEditable):
		Conflict(w, "Only ENTERED transactions can be modified")
	case errors.Is(err, transaction.ErrNotEntered):
		Conflict(w, "Only ENTERED transactions can be posted")
	case errors.Is(err, transaction.ErrAlreadyProcessed):
		Conflict(w, "Transaction already processed")
	case errors.Is(err, transaction.ErrInvalidType):
		BadRequest(w, "Invalid transaction type", nil)

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPayrollNotFound):
		NotFound(w, "Payroll record not found")
	case errors.Is(err, payroll.ErrPayrollAlreadyExists):
		Conflict(w, "Payroll record already exists for this period")
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, "Period is not a recognizable month token", nil)
	case errors.Is(err, payroll.ErrGenerationInProgress):
		Conflict(w, "A payroll run for this company and period is already in progress")
	case errors.Is(err, payroll.ErrNotRegenerable):
		Conflict(w, "Payroll record cannot be regenerated")
	case errors.Is(err, payroll.ErrNothingToFinalize):
		BadRequest(w, "No Calculated payroll records for this company and period", nil)
	case errors.Is(err, payroll.ErrRateTableNotEffective):
		BadRequest(w, "No statutory rate table effective for this period", nil)
	case errors.Is(err, payroll.ErrPayslipNotReady):
		BadRequest(w, "Payroll record has not been calculated yet", nil)

	// Processing domain errors
	case errors.Is(err, processing.ErrLogNotFound):
		NotFound(w, "Processing log not found")
	case errors.Is(err, processing.ErrLogTerminal):
		Conflict(w, "Processing log is terminal and cannot be updated")
	case errors.Is(err, processing.ErrInvalidProcess):
		BadRequest(w, "Invalid process type", nil)

	// Bank transfer domain errors
	case errors.Is(err, banktransfer.ErrTransferNotFound):
		NotFound(w, "Bank transfer not found")
	case errors.Is(err, banktransfer.ErrTransferNotPending):
		Conflict(w, "Bank transfer is not pending")
	case errors.Is(err, banktransfer.ErrNoTransfersToProcess):
		BadRequest(w, "No pending transfers to process", nil)
	case errors.Is(err, banktransfer.ErrMissingBankDetails):
		BadRequest(w, "Employee has no bank account details", nil)

	// Advance domain errors
	case errors.Is(err, advance.ErrAdvanceNotFound):
		NotFound(w, "Advance payment not found")
	case errors.Is(err, advance.ErrAdvanceNotPending):
		Conflict(w, "Advance payment is not pending")
	case errors.Is(err, advance.ErrAdvanceNotApproved):
		Conflict(w, "Advance payment is not approved")
	case errors.Is(err, advance.ErrAdvanceRecovered):
		Conflict(w, "Advance payment already recovered")

	// Redundancy domain errors
	case errors.Is(err, redundancy.ErrRedundancyNotFound):
		NotFound(w, "Redundancy record not found")
	case errors.Is(err, redundancy.ErrRedundancyNotDraft):
		Conflict(w, "Redundancy record is not in draft status")
	case errors.Is(err, redundancy.ErrNotApproved):
		Conflict(w, "Redundancy record is not approved")
	case errors.Is(err, redundancy.ErrAlreadyPaid):
		Conflict(w, "Redundancy record already paid")
	case errors.Is(err, redundancy.ErrNoJoinDate):
		BadRequest(w, "Employee has no join date on record", nil)
	case errors.Is(err, redundancy.ErrInsufficientService):
		BadRequest(w, "Employee has less than two years of service", nil)

	// Audit domain errors
	case errors.Is(err, audit.ErrLogNotFound):
		NotFound(w, "Audit log not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
