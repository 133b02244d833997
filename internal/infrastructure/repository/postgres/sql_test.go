package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(sql.ErrNoRows) {
		t.Fatalf("sql.ErrNoRows must be treated as not found")
	}
	if isNotFound(errors.New("connection refused")) {
		t.Fatalf("other errors must not be treated as not found")
	}
	if isNotFound(nil) {
		t.Fatalf("nil must not be treated as not found")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	dup := &pq.Error{Code: uniqueViolationCode, Constraint: "unique_user_game_prediction"}
	if !isUniqueViolation(dup) {
		t.Fatalf("23505 must be a unique violation")
	}
	if !isUniqueViolation(fmt.Errorf("insert prediction: %w", dup)) {
		t.Fatalf("wrapped 23505 must be a unique violation")
	}
	if isUniqueViolation(&pq.Error{Code: "23503"}) {
		t.Fatalf("foreign key violations are not unique violations")
	}
	if isUniqueViolation(errors.New("plain")) {
		t.Fatalf("plain errors are not unique violations")
	}
}
