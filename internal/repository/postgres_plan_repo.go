package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/hitoshi/fitforge/internal/model"
)

// PostgresPlanRepo はPostgreSQLを使用したプランリポジトリ。
// workout_plan / diet_plan は正規化済みの厳密な形のみをJSONBで保存する。
type PostgresPlanRepo struct {
	db *sql.DB
}

// NewPostgresPlanRepo はPostgresPlanRepoを生成する。
func NewPostgresPlanRepo(db *sql.DB) *PostgresPlanRepo {
	return &PostgresPlanRepo{db: db}
}

// Create はプランを作成する。
func (r *PostgresPlanRepo) Create(ctx context.Context, plan *model.Plan) error {
	workoutJSON, err := json.Marshal(plan.WorkoutPlan)
	if err != nil {
		return fmt.Errorf("failed to marshal workout plan: %w", err)
	}
	dietJSON, err := json.Marshal(plan.DietPlan)
	if err != nil {
		return fmt.Errorf("failed to marshal diet plan: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO plans (id, owner_clerk_id, name, workout_plan, diet_plan, is_active, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		plan.ID, plan.OwnerClerkID, plan.Name, workoutJSON, dietJSON, plan.IsActive, plan.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert plan: %w", err)
	}
	return nil
}

// ListByOwnerClerkID は指定ユーザーのプラン一覧を作成日時降順で返す。
func (r *PostgresPlanRepo) ListByOwnerClerkID(ctx context.Context, clerkID string) ([]*model.Plan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner_clerk_id, name, workout_plan, diet_plan, is_active, created_at
		 FROM plans
		 WHERE owner_clerk_id = $1
		 ORDER BY created_at DESC`,
		clerkID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer rows.Close()

	var plans []*model.Plan
	for rows.Next() {
		plan := &model.Plan{}
		var workoutJSON, dietJSON []byte

		if err := rows.Scan(&plan.ID, &plan.OwnerClerkID, &plan.Name, &workoutJSON, &dietJSON, &plan.IsActive, &plan.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		if err := json.Unmarshal(workoutJSON, &plan.WorkoutPlan); err != nil {
			return nil, fmt.Errorf("failed to unmarshal workout plan: %w", err)
		}
		if err := json.Unmarshal(dietJSON, &plan.DietPlan); err != nil {
			return nil, fmt.Errorf("failed to unmarshal diet plan: %w", err)
		}

		plans = append(plans, plan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate plans: %w", err)
	}

	return plans, nil
}

// compile-time interface check
var _ PlanRepository = (*PostgresPlanRepo)(nil)
