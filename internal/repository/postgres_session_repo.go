package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/fitforge/internal/model"
)

// PostgresSessionRepo はPostgreSQLを使用したセッションリポジトリ。
type PostgresSessionRepo struct {
	db *sql.DB
}

// NewPostgresSessionRepo はPostgresSessionRepoを生成する。
func NewPostgresSessionRepo(db *sql.DB) *PostgresSessionRepo {
	return &PostgresSessionRepo{db: db}
}

// Create はセッションを作成する。
func (r *PostgresSessionRepo) Create(ctx context.Context, session *model.Session) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, clerk_id, expires_at, created_at)
		 VALUES ($1, $2, $3, $4)`,
		session.ID, session.ClerkID, session.ExpiresAt, session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// FindMostRecentActive は有効期限内で最も新しいセッションを取得する。
// 該当がない場合はnilを返す。
func (r *PostgresSessionRepo) FindMostRecentActive(ctx context.Context) (*model.Session, error) {
	session := &model.Session{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, clerk_id, expires_at, created_at
		 FROM sessions
		 WHERE expires_at > now()
		 ORDER BY created_at DESC
		 LIMIT 1`,
	).Scan(&session.ID, &session.ClerkID, &session.ExpiresAt, &session.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find active session: %w", err)
	}

	return session, nil
}

// DeleteExpired は有効期限切れのセッションを削除し、削除件数を返す。
// 冪等: 削除対象がない場合でもエラーにならない。
func (r *PostgresSessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at <= now()`,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return deleted, nil
}

// compile-time interface check
var _ SessionRepository = (*PostgresSessionRepo)(nil)
