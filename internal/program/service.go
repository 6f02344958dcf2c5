package program

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/fitforge/internal/ai"
	"github.com/hitoshi/fitforge/internal/model"
	"github.com/hitoshi/fitforge/internal/repository"
	"github.com/hitoshi/fitforge/internal/schema"
)

// SessionResolver はアクティブセッションの解決インターフェース。
// repository.SessionRepositoryの部分集合として定義する。
type SessionResolver interface {
	FindMostRecentActive(ctx context.Context) (*model.Session, error)
}

// UserFinder はユーザー検索のインターフェース。
// repository.UserRepositoryの部分集合として定義する。
type UserFinder interface {
	FindByClerkID(ctx context.Context, clerkID string) (*model.User, error)
}

// Metrics はプラン生成のメトリクス記録インターフェース。
type Metrics interface {
	RecordGenerationSuccess()
	RecordGenerationFailure(stage string)
	RecordCompletionLatency(kind string, duration time.Duration)
}

// Result はプラン生成の結果。
type Result struct {
	PlanID       string
	WorkoutPlan  model.WorkoutPlan
	DietPlan     model.DietPlan
	OwnerClerkID string
}

// Service はプラン生成のオーケストレータ。
// セッション解決 → ユーザー確認 → トレーニング補完 → 食事補完 → 永続化を
// 逐次実行し、各ステップの失敗は以降を短絡して個別のエラーになる。
// 永続化は両サブプランの正規化完了後に1回だけ行うため、部分的なプランが
// 保存されることはない。
type Service struct {
	sessions  SessionResolver
	users     UserFinder
	plans     repository.PlanRepository
	completer ai.Completer
	metrics   Metrics
	logger    *slog.Logger
}

// NewService はServiceの新しいインスタンスを生成する。
// metricsはnilでもよい（記録をスキップする）。
func NewService(
	sessions SessionResolver,
	users UserFinder,
	plans repository.PlanRepository,
	completer ai.Completer,
	metrics Metrics,
	logger *slog.Logger,
) *Service {
	return &Service{
		sessions:  sessions,
		users:     users,
		plans:     plans,
		completer: completer,
		metrics:   metrics,
		logger:    logger,
	}
}

// GenerateProgram はフィットネスプランを生成して永続化する。
//
// 本人特定は常にアクティブセッションから行う。リクエストボディに
// 含まれる識別子らしきフィールドはデコード対象外であり無視される。
// 食事補完はトレーニング補完の正規化完了後に発行する
// （意図的な逐次実行。データ依存ではなくプロンプト文脈上の順序）。
func (s *Service) GenerateProgram(ctx context.Context, req *Request) (*Result, error) {
	// 1. アクティブセッションから本人を解決
	session, err := s.sessions.FindMostRecentActive(ctx)
	if err != nil {
		s.recordFailure("session")
		return nil, fmt.Errorf("セッションの取得に失敗しました: %w", err)
	}
	if session == nil {
		s.recordFailure("session")
		return nil, model.NewNoActiveSessionError()
	}

	// 2. ユーザーレコードの存在確認
	user, err := s.users.FindByClerkID(ctx, session.ClerkID)
	if err != nil {
		s.recordFailure("user")
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		// セッションはあるのにユーザーがいないのは同期の整合性異常
		s.logger.Error("セッションに対応するユーザーが存在しません",
			slog.String("clerk_id", session.ClerkID),
		)
		s.recordFailure("user")
		return nil, model.NewUserNotFoundError()
	}

	// 3-4. トレーニングプランの補完と正規化
	workoutRaw, err := s.completeJSON(ctx, "workout", buildWorkoutPrompt(req))
	if err != nil {
		return nil, err
	}
	workoutPlan := schema.NormalizeWorkoutPlan(workoutRaw)

	s.logger.Info("トレーニングプランを生成しました",
		slog.String("clerk_id", user.ClerkID),
		slog.Int("exercise_days", len(workoutPlan.Exercises)),
	)

	// 5. 食事プランの補完と正規化
	dietRaw, err := s.completeJSON(ctx, "diet", buildDietPrompt(req))
	if err != nil {
		return nil, err
	}
	dietPlan := schema.NormalizeDietPlan(dietRaw)

	s.logger.Info("食事プランを生成しました",
		slog.String("clerk_id", user.ClerkID),
		slog.Int("meals", len(dietPlan.Meals)),
	)

	// 6. 両サブプランが揃ってから1回だけ永続化する
	now := time.Now()
	plan := &model.Plan{
		ID:           uuid.New().String(),
		OwnerClerkID: user.ClerkID,
		Name:         planName(req.FitnessGoal.String(), now),
		WorkoutPlan:  workoutPlan,
		DietPlan:     dietPlan,
		IsActive:     true,
		CreatedAt:    now,
	}

	if err := s.plans.Create(ctx, plan); err != nil {
		s.logger.Error("プランの保存に失敗しました",
			slog.String("clerk_id", user.ClerkID),
			slog.String("error", err.Error()),
		)
		s.recordFailure("persist")
		return nil, model.NewPlanSaveFailedError()
	}

	if s.metrics != nil {
		s.metrics.RecordGenerationSuccess()
	}
	s.logger.Info("プランを作成しました",
		slog.String("plan_id", plan.ID),
		slog.String("clerk_id", user.ClerkID),
	)

	return &Result{
		PlanID:       plan.ID,
		WorkoutPlan:  workoutPlan,
		DietPlan:     dietPlan,
		OwnerClerkID: user.ClerkID,
	}, nil
}

// ListPlans はアクティブセッションのユーザーのプラン一覧を返す。
func (s *Service) ListPlans(ctx context.Context) ([]*model.Plan, error) {
	session, err := s.sessions.FindMostRecentActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("セッションの取得に失敗しました: %w", err)
	}
	if session == nil {
		return nil, model.NewNoActiveSessionError()
	}

	plans, err := s.plans.ListByOwnerClerkID(ctx, session.ClerkID)
	if err != nil {
		return nil, fmt.Errorf("プラン一覧の取得に失敗しました: %w", err)
	}
	return plans, nil
}

// completeJSON は補完を1回実行し、応答をJSONオブジェクトとして解析する。
// 補完失敗・解析失敗はいずれも再試行しない（不正なAI出力への
// 同一入力再試行は意味を持たないため）。
func (s *Service) completeJSON(ctx context.Context, kind, prompt string) (map[string]any, error) {
	start := time.Now()

	text, err := s.completer.CompleteJSON(ctx, prompt)
	if err != nil {
		s.logger.Error("AI補完の呼び出しに失敗しました",
			slog.String("kind", kind),
			slog.String("error", err.Error()),
		)
		s.recordFailure("completion")
		return nil, model.NewCompletionFailedError(kind)
	}

	if s.metrics != nil {
		s.metrics.RecordCompletionLatency(kind, time.Since(start))
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		s.logger.Error("AI応答のJSON解析に失敗しました",
			slog.String("kind", kind),
			slog.String("error", err.Error()),
		)
		s.recordFailure("parse")
		return nil, model.NewInvalidAIResponseError(kind)
	}

	return raw, nil
}

func (s *Service) recordFailure(stage string) {
	if s.metrics != nil {
		s.metrics.RecordGenerationFailure(stage)
	}
}

// planName は目標と生成日からプラン表示名を組み立てる。
func planName(goal string, now time.Time) string {
	if goal == "" {
		goal = "Fitness"
	}
	return fmt.Sprintf("%s Plan - %s", goal, now.Format("1/2/2006"))
}
