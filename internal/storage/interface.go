package storage

import (
	"overlay-backend/internal/model"
)

// PromptStore 管理系统提示词，跨进程重启持久化
type PromptStore interface {
	CreatePrompt(prompt *model.SystemPrompt) error
	GetPrompt(id string) (*model.SystemPrompt, error)
	UpdatePrompt(prompt *model.SystemPrompt) error
	DeletePrompt(id string) error
	ListPrompts() ([]*model.SystemPrompt, error)

	// 同一时间最多激活一个提示词，空 ID 表示无激活项
	ActivePromptID() string
	SetActivePrompt(id string) error

	Init() error
	Close() error
}

// TranscriptStore 保存会话转写记录。记录只在进程生命周期内存在，
// 但访问统一走接口，便于将来替换为有界实现。
type TranscriptStore interface {
	Append(message model.Message)
	Messages() []model.Message
	Len() int
	// TruncateAfter 丢弃索引 index 之后的全部消息
	TruncateAfter(index int)
	// UpdateText 只改写文本，不改 ID 与角色
	UpdateText(index int, text string)
	Clear()
}
