package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/avsfam/firstgoal/internal/domain/user"
	qb "github.com/avsfam/firstgoal/internal/platform/querybuilder"
)

type ProfileRepository struct {
	db *sqlx.DB
}

var _ user.ProfileRepository = (*ProfileRepository)(nil)

func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

type profileTableModel struct {
	UserID    string    `db:"user_id"`
	Username  string    `db:"username"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (user.Profile, bool, error) {
	query, args, err := qb.Select("user_id", "username", "updated_at").From("profiles").
		Where(qb.Eq("user_id", userID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return user.Profile{}, false, fmt.Errorf("build get profile query: %w", err)
	}

	var row profileTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return user.Profile{}, false, nil
		}
		return user.Profile{}, false, fmt.Errorf("get profile: %w", err)
	}

	return profileFromRow(row), true, nil
}

// Provision calls the create_user_profile database function, which inserts
// the profile and appends a suffix when the desired username is taken.
func (r *ProfileRepository) Provision(ctx context.Context, userID, desiredUsername string) (user.Profile, error) {
	const query = `SELECT user_id, username, updated_at FROM create_user_profile($1, $2)`

	var row profileTableModel
	if err := r.db.GetContext(ctx, &row, query, userID, desiredUsername); err != nil {
		return user.Profile{}, fmt.Errorf("provision profile: %w", err)
	}
	return profileFromRow(row), nil
}

func profileFromRow(row profileTableModel) user.Profile {
	return user.Profile{
		UserID:    row.UserID,
		Username:  row.Username,
		UpdatedAt: row.UpdatedAt,
	}
}
