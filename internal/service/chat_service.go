package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"overlay-backend/internal/channel"
	"overlay-backend/internal/config"
	"overlay-backend/internal/llm"
	"overlay-backend/internal/model"
	"overlay-backend/internal/storage"
	"overlay-backend/pkg/logger"
)

// Completer 抽象一次补全往返，便于测试时替换真实客户端
type Completer interface {
	Ask(ctx context.Context, payload json.RawMessage) model.AskResult
}

// Notifier 把转写变更推送给已连接的 UI
type Notifier interface {
	Publish(event string, payload interface{})
}

// ChatService 维护会话转写记录与系统提示词，并驱动补全调用。
// 转写是仅追加的：模型回答失败时把错误文案当作助手消息写入，
// 不中断会话，也不向调用方抛错。
type ChatService struct {
	mu         sync.Mutex
	transcript storage.TranscriptStore
	prompts    storage.PromptStore
	completer  Completer
	assembler  *Assembler
	events     Notifier
}

func NewChatService(cfg config.ChatConfig, transcript storage.TranscriptStore, prompts storage.PromptStore, completer Completer, events Notifier) *ChatService {
	s := &ChatService{
		transcript: transcript,
		prompts:    prompts,
		completer:  completer,
		assembler:  NewAssembler(NewEstimator(cfg.Estimator), HeadlineSummarizer{}, cfg.TokenBudget),
		events:     events,
	}

	greeting := cfg.Greeting
	if greeting == "" {
		greeting = "Hello! How can I help you?"
	}
	s.transcript.Append(newMessage(model.RoleAssistant, greeting))

	return s
}

func newMessage(role model.Role, text string) model.Message {
	return model.Message{
		ID:        uuid.New().String(),
		Role:      role,
		Text:      text,
		Timestamp: time.Now(),
	}
}

func (s *ChatService) Messages() []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transcript.Messages()
}

// SubmitMessage 追加用户消息并发起补全。带附件的请求走多部件
// 路径且不携带历史；纯文本请求携带预算裁剪后的上下文。
func (s *ChatService) SubmitMessage(ctx context.Context, text string, attachments []model.Attachment) (model.Message, error) {
	displayText := text
	if displayText == "" && len(attachments) > 0 {
		displayText = "[image]"
	}

	s.mu.Lock()
	s.transcript.Append(newMessage(model.RoleUser, displayText))
	payload, err := s.buildPayloadLocked(text, attachments)
	s.mu.Unlock()

	if err != nil {
		logger.Errorf("Failed to build completion payload: %v", err)
		return s.appendAssistant(err.Error()), nil
	}

	result := s.completer.Ask(ctx, payload)

	answer := result.Answer
	if !result.Success {
		answer = result.Error
	}
	return s.appendAssistant(answer), nil
}

// buildPayloadLocked 要求调用方持有 s.mu
func (s *ChatService) buildPayloadLocked(text string, attachments []model.Attachment) (json.RawMessage, error) {
	if len(attachments) > 0 {
		return llm.PartsPayload(text, attachments)
	}

	prompt := s.assembler.Build(s.activePromptContentLocked(), s.transcript.Messages())
	return llm.TextPayload(prompt), nil
}

func (s *ChatService) activePromptContentLocked() string {
	id := s.prompts.ActivePromptID()
	if id == "" {
		return ""
	}

	prompt, err := s.prompts.GetPrompt(id)
	if err != nil {
		return ""
	}
	return prompt.Content
}

func (s *ChatService) appendAssistant(text string) model.Message {
	s.mu.Lock()
	message := newMessage(model.RoleAssistant, text)
	s.transcript.Append(message)
	s.mu.Unlock()

	s.notifyTranscript()
	return message
}

// EditMessage 改写指定消息并丢弃其后的全部消息。被改写的是用户
// 消息时，立即按新文本重新生成恰好一条助手回答。
func (s *ChatService) EditMessage(ctx context.Context, id string, text string) error {
	s.mu.Lock()
	index := -1
	var role model.Role
	for i, message := range s.transcript.Messages() {
		if message.ID == id {
			index = i
			role = message.Role
			break
		}
	}

	if index < 0 {
		s.mu.Unlock()
		return storage.ErrMessageNotFound
	}

	s.transcript.UpdateText(index, text)
	s.transcript.TruncateAfter(index)

	var payload json.RawMessage
	if role == model.RoleUser {
		prompt := s.assembler.Build(s.activePromptContentLocked(), s.transcript.Messages())
		payload = llm.TextPayload(prompt)
	}
	s.mu.Unlock()

	s.notifyTranscript()

	if role != model.RoleUser {
		return nil
	}

	result := s.completer.Ask(ctx, payload)
	answer := result.Answer
	if !result.Success {
		answer = result.Error
	}
	s.appendAssistant(answer)

	return nil
}

// ResetContext 清空转写并重新写入开场白
func (s *ChatService) ResetContext(greeting string) {
	if greeting == "" {
		greeting = "Hello! How can I help you?"
	}

	s.mu.Lock()
	s.transcript.Clear()
	s.transcript.Append(newMessage(model.RoleAssistant, greeting))
	s.mu.Unlock()

	s.notifyTranscript()
}

func (s *ChatService) notifyTranscript() {
	if s.events == nil {
		return
	}
	s.events.Publish(channel.EventChatTranscriptUpdated, s.Messages())
}

// --- 系统提示词管理 ---

func (s *ChatService) CreatePrompt(name, content string) (*model.SystemPrompt, error) {
	now := time.Now()
	prompt := &model.SystemPrompt{
		ID:        uuid.New().String(),
		Name:      name,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.prompts.CreatePrompt(prompt); err != nil {
		return nil, err
	}
	return prompt, nil
}

func (s *ChatService) GetPrompt(id string) (*model.SystemPrompt, error) {
	return s.prompts.GetPrompt(id)
}

func (s *ChatService) UpdatePrompt(id, name, content string) (*model.SystemPrompt, error) {
	prompt, err := s.prompts.GetPrompt(id)
	if err != nil {
		return nil, err
	}

	prompt.Name = name
	prompt.Content = content
	prompt.UpdatedAt = time.Now()

	if err := s.prompts.UpdatePrompt(prompt); err != nil {
		return nil, err
	}
	return prompt, nil
}

func (s *ChatService) DeletePrompt(id string) error {
	return s.prompts.DeletePrompt(id)
}

func (s *ChatService) ListPrompts() ([]*model.SystemPrompt, error) {
	return s.prompts.ListPrompts()
}

// ActivatePrompt 激活指定提示词，空 ID 表示停用全部
func (s *ChatService) ActivatePrompt(id string) error {
	return s.prompts.SetActivePrompt(id)
}

func (s *ChatService) ActivePrompt() (*model.SystemPrompt, error) {
	id := s.prompts.ActivePromptID()
	if id == "" {
		return nil, nil
	}
	return s.prompts.GetPrompt(id)
}
