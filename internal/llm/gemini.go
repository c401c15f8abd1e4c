package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"overlay-backend/internal/config"
	"overlay-backend/internal/model"
	"overlay-backend/internal/utils"
	"overlay-backend/pkg/logger"
)

// ErrAPIKeyMissing 的文案是对外契约的一部分，不要改写
const errAPIKeyMissing = "Gemini API key not set in environment variable GEMINI_API_KEY."

const errInvalidRequest = "Invalid request format."

// AllowedModels 是免费档位的固定白名单，大小写敏感精确匹配
var AllowedModels = []string{
	"gemini-2.5-flash",
	"gemini-2.5-flash-lite",
	"gemini-2.0-flash",
	"gemini-2.0-flash-lite",
}

const DefaultModel = "gemini-2.5-flash"

// Client 包装对 Gemini generateContent 端点的单次往返调用：
// 无重试、无流式。所有失败都折叠成 AskResult，不向上抛错。
type Client struct {
	mu         sync.RWMutex
	model      string
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(cfg config.GeminiConfig) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}

	m := cfg.Model
	if m == "" {
		m = DefaultModel
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Client{
		model:      m,
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: utils.NewHTTPClient(timeout),
	}
}

// SetModel 只接受白名单内的标识，拒绝时保持原模型不变
func (c *Client) SetModel(m string) model.SetModelResult {
	for _, allowed := range AllowedModels {
		if m == allowed {
			c.mu.Lock()
			c.model = m
			c.mu.Unlock()
			return model.SetModelResult{Success: true, Model: m}
		}
	}

	c.mu.RLock()
	current := c.model
	c.mu.RUnlock()
	return model.SetModelResult{Success: false, Model: current, Error: "Invalid model specified"}
}

func (c *Client) Model() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model
}

// --- Gemini 线上报文 ---

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

type geminiCandidate struct {
	Content geminiContent `json:"content"`
}

// Ask 接受两种载荷：JSON 字符串视为纯文本提示（兼容旧路径）；
// 带 contents 字段的对象视为已组装好的 Gemini 请求体，原样转发。
// 其余形态直接拒绝，不发起网络调用。
func (c *Client) Ask(ctx context.Context, payload json.RawMessage) model.AskResult {
	c.mu.RLock()
	apiKey := c.apiKey
	selected := c.model
	c.mu.RUnlock()

	if apiKey == "" {
		return model.AskResult{Success: false, Error: errAPIKeyMissing}
	}

	body, ok := normalizePayload(payload)
	if !ok {
		return model.AskResult{Success: false, Error: errInvalidRequest}
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, selected, apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return model.AskResult{Success: false, Error: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.AskResult{Success: false, Error: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.AskResult{Success: false, Error: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.AskResult{
			Success: false,
			Error: fmt.Sprintf("Gemini API error: %d %s - %s",
				resp.StatusCode, http.StatusText(resp.StatusCode), string(respBody)),
		}
	}

	var gemResp geminiResponse
	if err := json.Unmarshal(respBody, &gemResp); err != nil {
		return model.AskResult{Success: false, Error: err.Error()}
	}

	answer := "No response"
	if len(gemResp.Candidates) > 0 && len(gemResp.Candidates[0].Content.Parts) > 0 {
		if text := gemResp.Candidates[0].Content.Parts[0].Text; text != "" {
			answer = text
		}
	}

	logger.Debugf("Gemini call completed, model=%s, answer length=%d", selected, len(answer))
	return model.AskResult{Success: true, Answer: answer}
}

// normalizePayload 把调用方载荷规整为最终请求体
func normalizePayload(payload json.RawMessage) ([]byte, bool) {
	var text string
	if err := json.Unmarshal(payload, &text); err == nil {
		body, err := json.Marshal(geminiRequest{
			Contents: []geminiContent{{Parts: []geminiPart{{Text: text}}}},
		})
		if err != nil {
			return nil, false
		}
		return body, true
	}

	var probe struct {
		Contents []json.RawMessage `json:"contents"`
	}
	if err := json.Unmarshal(payload, &probe); err == nil && probe.Contents != nil {
		return payload, true
	}

	return nil, false
}
