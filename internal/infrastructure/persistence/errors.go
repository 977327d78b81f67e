package persistence

import (
	"errors"
	"strings"

	"github.com/erp/cashledger/internal/domain/cashier"
	"github.com/erp/cashledger/internal/domain/identity"
	"github.com/erp/cashledger/internal/domain/shared"
	"github.com/erp/cashledger/internal/infrastructure/persistence/models"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// pgUniqueViolation is the PostgreSQL SQLSTATE for unique_violation
const pgUniqueViolation = "23505"

// uniqueRule maps a violated unique index to the domain error it means.
// SQLite reports the indexed columns instead of the index name.
type uniqueRule struct {
	index         string
	sqliteColumns string
	err           error
}

var uniqueRules = []uniqueRule{
	{models.IndexShiftOneOpen, "cash_register_shifts.register_id", cashier.ErrRegisterAlreadyOpen},
	{models.IndexOperatorActivePin, "operators.branch_id, operators.pin_lookup", identity.ErrPinInUse},
	{models.IndexRegisterBranchName, "cash_registers.branch_id, cash_registers.name", cashier.ErrRegisterNameTaken},
	{models.IndexMovementSalaryAdvance, "cash_register_movements.salary_advance_id", shared.ErrConflict},
	{models.IndexDiscrepancyShift, "discrepancy_records.shift_id", cashier.ErrShiftAlreadyClosed},
}

// translateWriteError converts a unique violation into its domain error.
// Unrecognised violations become shared.ErrConflict; other errors pass through.
func translateWriteError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		for _, rule := range uniqueRules {
			if pgErr.ConstraintName == rule.index {
				return rule.err
			}
		}
		return shared.ErrConflict
	}

	if msg := err.Error(); strings.Contains(msg, "UNIQUE constraint failed") {
		for _, rule := range uniqueRules {
			if strings.Contains(msg, rule.sqliteColumns) {
				return rule.err
			}
		}
		return shared.ErrConflict
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrConflict
	}
	return err
}

// notFound maps gorm.ErrRecordNotFound to shared.ErrNotFound
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}
