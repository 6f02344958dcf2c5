// Package program はAIによるフィットネスプラン生成のドメインロジックを提供する。
package program

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TextValue はプロンプト埋め込み用の自由形式の値。
// 音声エージェント等のクライアントは同じ項目を文字列・数値・配列の
// いずれでも送ってくるため、JSONの型に依存せずテキストとして受ける。
type TextValue string

// UnmarshalJSON は文字列・数値・真偽値・それらの配列を受け付ける。
// 配列は", "区切りで結合する。nullは空文字列になる。
func (t *TextValue) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = TextValue(s)
		return nil
	}

	var items []any
	if err := json.Unmarshal(b, &items); err == nil {
		parts := make([]string, 0, len(items))
		for _, item := range items {
			parts = append(parts, scalarText(item))
		}
		*t = TextValue(strings.Join(parts, ", "))
		return nil
	}

	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*t = TextValue(scalarText(v))
	return nil
}

// String はプロンプト埋め込み用のテキストを返す。
func (t TextValue) String() string {
	return string(t)
}

// scalarText はJSONスカラー値をテキスト化する。
func scalarText(v any) string {
	switch n := v.(type) {
	case nil:
		return ""
	case string:
		return n
	case float64:
		// 整数はそのまま、少数は最短表現で
		if n == float64(int64(n)) {
			return fmt.Sprintf("%d", int64(n))
		}
		return fmt.Sprintf("%g", n)
	default:
		return fmt.Sprintf("%v", n)
	}
}

// Request はプラン生成の一時的な入力。
// 本人特定フィールドは受け付けない（ボディにuser_identifier等が
// 含まれていても無視され、常にアクティブセッションから解決する）。
type Request struct {
	Age                 TextValue `json:"age"`
	Gender              TextValue `json:"gender"`
	Height              TextValue `json:"height"`
	Weight              TextValue `json:"weight"`
	Injuries            TextValue `json:"injuries"`
	WorkoutDays         TextValue `json:"workout_days"`
	FitnessGoal         TextValue `json:"fitness_goal"`
	FitnessLevel        TextValue `json:"fitness_level"`
	DietaryRestrictions TextValue `json:"dietary_restrictions"`
}
