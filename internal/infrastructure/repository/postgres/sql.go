package postgres

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

func isNotFound(err error) bool {
	return err == sql.ErrNoRows
}

func pgErrorCode(err error) pq.ErrorCode {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return pgErrorCode(err) == "23505"
}

func isExclusionViolation(err error) bool {
	return pgErrorCode(err) == "23P01"
}

// isRetryableTxFailure matches serialization failures and deadlocks,
// the two outcomes a serializable transaction can hit purely because of
// concurrent writers.
func isRetryableTxFailure(err error) bool {
	code := pgErrorCode(err)
	return code == "40001" || code == "40P01"
}
