// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/fitforge/internal/model"
)

// UserFields はuser.updatedイベントで上書きされるフィールドの集合。
// 更新はマージではなく全フィールドの上書きとして扱う。
type UserFields struct {
	Email    string
	Name     string
	ImageURL string
}

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByClerkID は指定ClerkIDのユーザーを取得する。見つからない場合はnilを返す。
	FindByClerkID(ctx context.Context, clerkID string) (*model.User, error)

	// Create はユーザーを作成する。
	Create(ctx context.Context, user *model.User) error

	// UpdateByClerkID は指定ClerkIDのユーザーのフィールドを上書き更新する。
	// 対象ユーザーが存在しない場合はエラーを返す。
	UpdateByClerkID(ctx context.Context, clerkID string, fields UserFields) error
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error

	// FindMostRecentActive は有効期限内で最も新しいセッションを取得する。
	// 該当がない場合はnilを返す。
	FindMostRecentActive(ctx context.Context) (*model.Session, error)

	// DeleteExpired は有効期限切れのセッションを削除し、削除件数を返す。
	DeleteExpired(ctx context.Context) (int64, error)
}

// PlanRepository はフィットネスプランの永続化インターフェース。
type PlanRepository interface {
	// Create はプランを作成する。重複排除は行わない
	// （同一入力の生成リクエストごとに別プランが作られる）。
	Create(ctx context.Context, plan *model.Plan) error

	// ListByOwnerClerkID は指定ユーザーのプラン一覧を作成日時降順で返す。
	ListByOwnerClerkID(ctx context.Context, clerkID string) ([]*model.Plan, error)
}
