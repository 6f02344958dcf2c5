// Package schema はAI出力の正規化を提供する。
// LLMの構造化出力はスキーマが安定しないため、拒否ではなく
// 許可リスト射影とデフォルト値補完で厳密な形に強制する。
// この方針により不正フィールドや型ずれでパイプラインは停止しない。
package schema

import "github.com/hitoshi/fitforge/internal/model"

const (
	// defaultSets はsetsが解釈できない場合の補完値。
	defaultSets = 1
	// defaultReps はrepsが解釈できない場合の補完値。
	defaultReps = 10
)

// NormalizeWorkoutPlan は任意の形のAI出力をWorkoutPlanに正規化する。
// 全域関数であり、どのような入力に対しても失敗しない。
// 許可リスト（schedule, exercises[].day, exercises[].routines[].{name,sets,reps}）
// 以外のフィールドはすべて捨てる。sets/repsは数値以外の場合は整数パースを試み、
// 失敗時はそれぞれ1と10で補完する。
func NormalizeWorkoutPlan(raw map[string]any) model.WorkoutPlan {
	plan := model.WorkoutPlan{
		Schedule:  toStringSlice(raw["schedule"]),
		Exercises: []model.ExerciseDay{},
	}

	exercises, _ := raw["exercises"].([]any)
	for _, e := range exercises {
		em, ok := e.(map[string]any)
		if !ok {
			continue
		}

		day := model.ExerciseDay{
			Day:      toString(em["day"]),
			Routines: []model.Routine{},
		}

		routines, _ := em["routines"].([]any)
		for _, r := range routines {
			rm, ok := r.(map[string]any)
			if !ok {
				continue
			}
			day.Routines = append(day.Routines, model.Routine{
				Name: toString(rm["name"]),
				Sets: coerceInt(rm["sets"], defaultSets),
				Reps: coerceInt(rm["reps"], defaultReps),
			})
		}

		plan.Exercises = append(plan.Exercises, day)
	}

	return plan
}

// NormalizeDietPlan は任意の形のAI出力をDietPlanに正規化する。
// 全域関数であり、どのような入力に対しても失敗しない。
// 許可リスト（dailyCalories, meals[].{name,foods}）以外のフィールドは
// すべて捨てる（supplements、notes等のAI創作フィールドはエラーにせず黙って除去）。
func NormalizeDietPlan(raw map[string]any) model.DietPlan {
	plan := model.DietPlan{
		DailyCalories: coerceFloat(raw["dailyCalories"]),
		Meals:         []model.Meal{},
	}

	meals, _ := raw["meals"].([]any)
	for _, m := range meals {
		mm, ok := m.(map[string]any)
		if !ok {
			continue
		}
		plan.Meals = append(plan.Meals, model.Meal{
			Name:  toString(mm["name"]),
			Foods: toStringSlice(mm["foods"]),
		})
	}

	return plan
}

// coerceInt は値を正の整数に強制する。
// 数値はそのまま整数化し、文字列は先頭の整数部分をパースする
// （"12 reps"は12になる）。解釈できない場合はfallbackを返す。
// 0以下の結果もfallbackに置き換え、常に正の整数を保証する。
func coerceInt(v any, fallback int) int {
	switch n := v.(type) {
	case float64:
		if i := int(n); i > 0 {
			return i
		}
		return fallback
	case int:
		if n > 0 {
			return n
		}
		return fallback
	case string:
		if i, ok := parseLeadingInt(n); ok && i > 0 {
			return i
		}
		return fallback
	default:
		return fallback
	}
}

// parseLeadingInt は文字列先頭の整数をパースする。
// JavaScriptのparseIntと同様に、先頭の空白をスキップし
// 数字が途切れた位置で打ち切る。数字が1つもなければfalseを返す。
func parseLeadingInt(s string) (int, bool) {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}

	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}

	start := i
	n := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		n = n*10 + int(s[i]-'0')
		i++
	}
	if i == start {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}

// coerceFloat は値を数値に強制する。文字列は先頭の整数部分のみ解釈し、
// 解釈できない場合は0を返す。
func coerceFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case string:
		if i, ok := parseLeadingInt(n); ok {
			return float64(i)
		}
		return 0
	default:
		return 0
	}
}

// toString は値が文字列の場合のみ取り出す。それ以外は空文字列。
func toString(v any) string {
	s, _ := v.(string)
	return s
}

// toStringSlice は配列から文字列要素のみを取り出す。
// 配列でない場合や要素がない場合は空スライスを返す。
func toStringSlice(v any) []string {
	items, _ := v.([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
