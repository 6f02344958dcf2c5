// Package ai はGroqのチャット補完APIクライアントを提供する。
// GroqはOpenAI互換エンドポイントを公開しているため、
// go-openaiクライアントをベースURL差し替えで使用する。
package ai

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultModel はGROQ_MODEL未設定時に使用するモデルID。
	DefaultModel = "llama-3.3-70b-versatile"
	// DefaultBaseURL はGroqのOpenAI互換エンドポイント。
	DefaultBaseURL = "https://api.groq.com/openai/v1"

	// completionTemperature はプラン生成の温度。
	// スキーマ逸脱を抑えるため低めに固定する。
	completionTemperature = 0.4
)

// Completer はJSON限定のテキスト補完インターフェース。
// オーケストレータはこの抽象を通じて補完サービスを利用する
// （テストでは決定的なスタブに差し替える）。
type Completer interface {
	// CompleteJSON はプロンプトに対するJSON形式の補完テキストを返す。
	CompleteJSON(ctx context.Context, prompt string) (string, error)
}

// ClientConfig はGroqクライアントの設定。
type ClientConfig struct {
	APIKey  string
	Model   string        // 空の場合はDefaultModel
	BaseURL string        // 空の場合はDefaultBaseURL（テスト用に差し替え可能）
	Timeout time.Duration // 0の場合はタイムアウトなし（補完サービス側の制限に依存）
}

// Client はGroqチャット補完APIのクライアント。
type Client struct {
	api    *openai.Client
	model  string
	logger *slog.Logger
}

// NewClient はClientの新しいインスタンスを生成する。
func NewClient(cfg ClientConfig, logger *slog.Logger) *Client {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	apiCfg.BaseURL = cfg.BaseURL
	if apiCfg.BaseURL == "" {
		apiCfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout > 0 {
		apiCfg.HTTPClient.Timeout = cfg.Timeout
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &Client{
		api:    openai.NewClientWithConfig(apiCfg),
		model:  model,
		logger: logger,
	}
}

// CompleteJSON はプロンプトに対するチャット補完を実行し、応答本文を返す。
// response_formatでJSONオブジェクト出力を強制するが、
// スキーマ自体は強制されないため呼び出し側での正規化が前提。
func (c *Client) CompleteJSON(ctx context.Context, prompt string) (string, error) {
	start := time.Now()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: completionTemperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		c.logger.Error("チャット補完APIの呼び出しに失敗しました",
			slog.String("model", c.model),
			slog.String("error", err.Error()),
		)
		return "", fmt.Errorf("チャット補完の実行に失敗しました: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("チャット補完の応答に選択肢が含まれていません")
	}

	c.logger.Info("チャット補完が完了しました",
		slog.String("model", c.model),
		slog.Float64("duration_ms", float64(time.Since(start).Milliseconds())),
	)

	return resp.Choices[0].Message.Content, nil
}
