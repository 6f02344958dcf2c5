package webhook

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/fitforge/internal/model"
	"github.com/hitoshi/fitforge/internal/repository"
)

// Service は検証済みIdPイベントをユーザーストア操作にディスパッチする。
// user.created / user.updated 以外のイベントは何もせず成功を返す。
// ストア操作の失敗は呼び出し元に伝搬し、IdP側の再配送に委ねる
// （このサブシステム内では再試行しない）。
type Service struct {
	users  repository.UserRepository
	logger *slog.Logger
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(users repository.UserRepository, logger *slog.Logger) *Service {
	return &Service{
		users:  users,
		logger: logger,
	}
}

// SyncUser は検証済みイベントに応じてユーザーを作成または上書き更新する。
// 表示名はfirst/lastの空白トリム結合であり、片方が欠けても
// "null"等のテキストが混入することはない。
func (s *Service) SyncUser(ctx context.Context, evt *IdentityEvent) error {
	switch evt.Kind {
	case EventUserCreated:
		return s.createUser(ctx, evt)
	case EventUserUpdated:
		return s.updateUser(ctx, evt)
	default:
		// 未知のイベント種別は検証済みの上でno-opとする
		s.logger.Info("未対応のwebhookイベントをスキップします",
			slog.String("kind", string(evt.Kind)),
		)
		return nil
	}
}

func (s *Service) createUser(ctx context.Context, evt *IdentityEvent) error {
	email, err := primaryEmail(evt)
	if err != nil {
		return err
	}

	now := time.Now()
	user := &model.User{
		ID:        uuid.New().String(),
		ClerkID:   evt.ClerkID,
		Email:     email,
		Name:      displayName(evt.FirstName, evt.LastName),
		ImageURL:  evt.ImageURL,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		s.logger.Error("ユーザーの作成に失敗しました",
			slog.String("clerk_id", evt.ClerkID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("ユーザーの作成に失敗しました: %w", err)
	}

	s.logger.Info("ユーザーを作成しました",
		slog.String("clerk_id", evt.ClerkID),
		slog.String("email", email),
	)
	return nil
}

func (s *Service) updateUser(ctx context.Context, evt *IdentityEvent) error {
	email, err := primaryEmail(evt)
	if err != nil {
		return err
	}

	// 更新はマージではなく上書き
	fields := repository.UserFields{
		Email:    email,
		Name:     displayName(evt.FirstName, evt.LastName),
		ImageURL: evt.ImageURL,
	}

	if err := s.users.UpdateByClerkID(ctx, evt.ClerkID, fields); err != nil {
		s.logger.Error("ユーザーの更新に失敗しました",
			slog.String("clerk_id", evt.ClerkID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("ユーザーの更新に失敗しました: %w", err)
	}

	s.logger.Info("ユーザーを更新しました",
		slog.String("clerk_id", evt.ClerkID),
	)
	return nil
}

// primaryEmail はメールアドレスリストの先頭を返す。
// 空リストはIdPとの契約違反であり、クライアントエラーではなく
// サーバーエラーとして上流に通知する。
func primaryEmail(evt *IdentityEvent) (string, error) {
	if len(evt.EmailAddresses) == 0 {
		return "", model.NewEmptyEmailListError()
	}
	return evt.EmailAddresses[0], nil
}

// displayName はfirst/lastをトリムして1つの空白で結合する。
// 両方空の場合は空文字列を返す。
func displayName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}
