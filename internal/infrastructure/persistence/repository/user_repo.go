package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"expense-report-service/internal/application/port"
	"expense-report-service/internal/domain/entity"
	"expense-report-service/internal/infrastructure/persistence/sqlite"
)

const userColumns = `id, email, first_name, last_name, role, approved, supervisor_id, created_at`

// UserRepository implements port.UserRepository
type UserRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB, logger *zap.Logger) port.UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

// GetByID retrieves a user by ID, nil when absent
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`

	user, err := r.scanUser(r.getExecutor(ctx).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get user", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// ListApprovedSupervisors returns every approved supervisor, by name
func (r *UserRepository) ListApprovedSupervisors(ctx context.Context) ([]*entity.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE role = ? AND approved = 1
		ORDER BY last_name ASC, first_name ASC, id ASC
	`

	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, entity.RoleSupervisor)
	if err != nil {
		r.logger.Error("Failed to list supervisors", zap.Error(err))
		return nil, fmt.Errorf("failed to list supervisors: %w", err)
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		user, err := r.scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *UserRepository) scanUser(row rowScanner) (*entity.User, error) {
	var user entity.User
	var supervisorID sql.NullInt64

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.Role,
		&user.Approved,
		&supervisorID,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if supervisorID.Valid {
		user.SupervisorID = &supervisorID.Int64
	}
	return &user, nil
}

func (r *UserRepository) getExecutor(ctx context.Context) sqlite.Executor {
	if tx := sqlite.ExtractTx(ctx); tx != nil {
		return tx
	}
	return r.db
}

// Verify interface compliance
var _ port.UserRepository = (*UserRepository)(nil)
