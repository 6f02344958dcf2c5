package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/fitforge/internal/model"
)

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

// FindByClerkID は指定ClerkIDのユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByClerkID(ctx context.Context, clerkID string) (*model.User, error) {
	user := &model.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, clerk_id, email, name, image_url, created_at, updated_at
		 FROM users WHERE clerk_id = $1`,
		clerkID,
	).Scan(&user.ID, &user.ClerkID, &user.Email, &user.Name, &user.ImageURL, &user.CreatedAt, &user.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by clerk ID: %w", err)
	}

	return user, nil
}

// Create はユーザーを作成する。
func (r *PostgresUserRepo) Create(ctx context.Context, user *model.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, clerk_id, email, name, image_url, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.ID, user.ClerkID, user.Email, user.Name, user.ImageURL, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// UpdateByClerkID は指定ClerkIDのユーザーのフィールドを上書き更新する。
// 対象ユーザーが存在しない場合はエラーを返す。
func (r *PostgresUserRepo) UpdateByClerkID(ctx context.Context, clerkID string, fields UserFields) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET email = $1, name = $2, image_url = $3, updated_at = $4
		 WHERE clerk_id = $5`,
		fields.Email, fields.Name, fields.ImageURL, time.Now(), clerkID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user not found: %s", clerkID)
	}
	return nil
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
