// Package session はアクティブセッションの記録を提供する。
// セッション・トークンの発行自体はIdP（Clerk）の責務であり、
// ここではプラン生成の本人解決に使う「最新のアクティブセッション」を
// 記録・管理するだけに留める。
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/fitforge/internal/model"
	"github.com/hitoshi/fitforge/internal/repository"
)

// ServiceConfig はセッションサービスの設定。
type ServiceConfig struct {
	MaxAge int // セッション有効期間（秒）
}

// Service はセッション記録のサービス層。
type Service struct {
	sessions repository.SessionRepository
	config   ServiceConfig
	logger   *slog.Logger
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(sessions repository.SessionRepository, config ServiceConfig, logger *slog.Logger) *Service {
	return &Service{
		sessions: sessions,
		config:   config,
		logger:   logger,
	}
}

// Record は指定ユーザーのアクティブセッションを記録する。
// フロントエンドがIdP認証の完了後に呼び出すことを想定している。
func (s *Service) Record(ctx context.Context, clerkID string) (*model.Session, error) {
	if clerkID == "" {
		return nil, fmt.Errorf("clerk IDが指定されていません")
	}

	id, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("セッションIDの生成に失敗しました: %w", err)
	}

	session := &model.Session{
		ID:        id,
		ClerkID:   clerkID,
		ExpiresAt: time.Now().Add(time.Duration(s.config.MaxAge) * time.Second),
		CreatedAt: time.Now(),
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("セッションの保存に失敗しました: %w", err)
	}

	s.logger.Info("セッションを記録しました",
		slog.String("clerk_id", clerkID),
	)

	return session, nil
}

// generateSessionID は暗号的に安全なセッションIDを生成する。
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
