package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/fitforge/internal/model"
	"github.com/hitoshi/fitforge/internal/program"
)

// ProgramServiceInterface はプラン生成ハンドラーが必要とするサービスインターフェース。
type ProgramServiceInterface interface {
	GenerateProgram(ctx context.Context, req *program.Request) (*program.Result, error)
	ListPlans(ctx context.Context) ([]*model.Plan, error)
}

// ProgramHandler はプラン生成のHTTPハンドラー。
type ProgramHandler struct {
	service ProgramServiceInterface
}

// NewProgramHandler はProgramHandlerを生成する。
func NewProgramHandler(service ProgramServiceInterface) *ProgramHandler {
	return &ProgramHandler{service: service}
}

// generateProgramData は生成成功レスポンスのdata部。
type generateProgramData struct {
	PlanID      string            `json:"planId"`
	WorkoutPlan model.WorkoutPlan `json:"workoutPlan"`
	DietPlan    model.DietPlan    `json:"dietPlan"`
	UserID      string            `json:"userId"`
}

// planResponse はプラン一覧のAPIレスポンス要素。
type planResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	WorkoutPlan model.WorkoutPlan `json:"workoutPlan"`
	DietPlan    model.DietPlan    `json:"dietPlan"`
	IsActive    bool              `json:"isActive"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// GenerateProgram はフィットネスプランの生成を処理する。
// POST /vapi/generate-program
//
// ボディに本人特定フィールドは受け付けず、セッションから解決する。
// 401（セッションなし）と404（ユーザー未登録）以外の失敗はすべて
// 500の統一エンベロープ {success:false, error} になる。
func (h *ProgramHandler) GenerateProgram(w http.ResponseWriter, r *http.Request) {
	var req program.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorEnvelope(w, http.StatusInternalServerError, "Invalid request body")
		return
	}

	result, err := h.service.GenerateProgram(r.Context(), &req)
	if err != nil {
		handleProgramError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, successEnvelope{
		Success: true,
		Data: generateProgramData{
			PlanID:      result.PlanID,
			WorkoutPlan: result.WorkoutPlan,
			DietPlan:    result.DietPlan,
			UserID:      result.OwnerClerkID,
		},
	})
}

// ListPlans はセッションユーザーのプラン一覧を返す。
// GET /vapi/plans
func (h *ProgramHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.service.ListPlans(r.Context())
	if err != nil {
		handleProgramError(w, err)
		return
	}

	resp := make([]planResponse, 0, len(plans))
	for _, p := range plans {
		resp = append(resp, planResponse{
			ID:          p.ID,
			Name:        p.Name,
			WorkoutPlan: p.WorkoutPlan,
			DietPlan:    p.DietPlan,
			IsActive:    p.IsActive,
			CreatedAt:   p.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, successEnvelope{Success: true, Data: resp})
}

// handleProgramError はサービス層のエラーを統一エンベロープに変換する。
func handleProgramError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		writeErrorEnvelope(w, mapAPIErrorToHTTPStatus(apiErr), apiErr.Message)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeErrorEnvelope(w, http.StatusInternalServerError, "Internal server error")
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeNoActiveSession:
		return http.StatusUnauthorized
	case model.ErrCodeUserNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
