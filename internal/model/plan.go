// Package model はドメインモデルを定義する。
package model

import "time"

// Routine は1種目のトレーニング内容を表す。
// SetsとRepsは正規化後は常に正の整数であることが保証される。
type Routine struct {
	Name string `json:"name"`
	Sets int    `json:"sets"`
	Reps int    `json:"reps"`
}

// ExerciseDay は1日分のトレーニングメニューを表す。
type ExerciseDay struct {
	Day      string    `json:"day"`
	Routines []Routine `json:"routines"`
}

// WorkoutPlan はAI生成されたトレーニングプランを表す。
// schema.NormalizeWorkoutPlanを通過した後の厳密な形のみを保持する。
type WorkoutPlan struct {
	Schedule  []string      `json:"schedule"`
	Exercises []ExerciseDay `json:"exercises"`
}

// Meal は1食分の食事内容を表す。
type Meal struct {
	Name  string   `json:"name"`
	Foods []string `json:"foods"`
}

// DietPlan はAI生成された食事プランを表す。
// 正規化後はdailyCaloriesとmeals以外のフィールドを持たない。
type DietPlan struct {
	DailyCalories float64 `json:"dailyCalories"`
	Meals         []Meal  `json:"meals"`
}

// Plan はユーザーに紐づく生成済みフィットネスプランを表す。
// 1ユーザーが複数のプランを持つことができ、IsActiveは排他制御されない
// （新しいプランを作成しても既存プランは非アクティブ化されない）。
type Plan struct {
	ID           string
	OwnerClerkID string
	Name         string
	WorkoutPlan  WorkoutPlan
	DietPlan     DietPlan
	IsActive     bool
	CreatedAt    time.Time
}
