// Package users implements the PostgreSQL-backed user record store.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/kynetix/internal/common"
	"github.com/dmitrijs2005/kynetix/internal/dbx"
	"github.com/dmitrijs2005/kynetix/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the PostgreSQL SQLSTATE for a unique index conflict.
const uniqueViolation = "23505"

const selectUser = `SELECT id, phone_number, full_name, email, hashed_password, avatar_url, bio,
		points, total_points_earned, total_distance_km, total_workouts,
		current_streak_days, longest_streak_days, is_active, is_verified,
		created_at, updated_at
	 FROM users`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts user and fills in the columns assigned by the database.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (phone_number, full_name, email, hashed_password, avatar_url, bio, is_active, is_verified)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, points, total_points_earned, total_distance_km, total_workouts,
		 	current_streak_days, longest_streak_days, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		user.PhoneNumber, user.FullName, user.Email, user.HashedPassword,
		user.AvatarURL, user.Bio, user.IsActive, user.IsVerified,
	).Scan(
		&user.ID, &user.Points, &user.TotalPointsEarned, &user.TotalDistanceKm, &user.TotalWorkouts,
		&user.CurrentStreakDays, &user.LongestStreakDays, &user.CreatedAt, &user.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("%w: db error: %w", common.ErrorStorage, err)
	}

	return user, nil
}

func (r *PostgresRepository) GetUserByPhone(ctx context.Context, phoneNumber string) (*models.User, error) {
	return r.getOne(ctx, selectUser+` WHERE phone_number = $1`, phoneNumber)
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, selectUser+` WHERE id = $1`, id)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("%w: db error: %w", common.ErrorStorage, err)
	}
	return user, nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(
		&u.ID, &u.PhoneNumber, &u.FullName, &u.Email, &u.HashedPassword, &u.AvatarURL, &u.Bio,
		&u.Points, &u.TotalPointsEarned, &u.TotalDistanceKm, &u.TotalWorkouts,
		&u.CurrentStreakDays, &u.LongestStreakDays, &u.IsActive, &u.IsVerified,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
