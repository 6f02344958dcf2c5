// Package model はドメインモデルを定義する。
package model

import "time"

// User はClerkから同期されたサービス利用ユーザーを表す。
// ClerkのexternalId（ClerkID）をキーとしてWebhook経由で作成・上書き更新される。
// このサブシステムからユーザーを削除することはない。
type User struct {
	ID        string
	ClerkID   string
	Email     string
	Name      string
	ImageURL  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Session はユーザーのアクティブセッションを表す。
// プラン生成リクエストの本人特定はリクエストボディではなく
// 最新のアクティブセッションから行う（なりすまし対策）。
type Session struct {
	ID        string
	ClerkID   string
	ExpiresAt time.Time
	CreatedAt time.Time
}
