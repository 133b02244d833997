package postgres

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/lib/pq"
)

const (
	uniqueViolationCode = "23505"
	raiseExceptionCode  = "P0001"
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolationCode
	}
	return false
}

// isAlreadyVerifiedRaise matches the guard inside verify_game_predictions,
// which raises when the game's points were already applied.
func isAlreadyVerifiedRaise(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == raiseExceptionCode && strings.Contains(pqErr.Message, "already verified")
	}
	return false
}
