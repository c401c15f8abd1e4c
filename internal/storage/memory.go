package storage

import (
	"sync"

	"overlay-backend/internal/model"
)

type MemoryPromptStore struct {
	prompts  map[string]*model.SystemPrompt
	activeID string
	mu       sync.RWMutex
}

func NewMemoryPromptStore() *MemoryPromptStore {
	return &MemoryPromptStore{
		prompts: make(map[string]*model.SystemPrompt),
	}
}

func (m *MemoryPromptStore) Init() error {
	return nil
}

func (m *MemoryPromptStore) Close() error {
	return nil
}

func (m *MemoryPromptStore) CreatePrompt(prompt *model.SystemPrompt) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.prompts[prompt.ID] = prompt
	return nil
}

func (m *MemoryPromptStore) GetPrompt(id string) (*model.SystemPrompt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	prompt, exists := m.prompts[id]
	if !exists {
		return nil, ErrPromptNotFound
	}

	copied := *prompt
	return &copied, nil
}

func (m *MemoryPromptStore) UpdatePrompt(prompt *model.SystemPrompt) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.prompts[prompt.ID]; !exists {
		return ErrPromptNotFound
	}

	m.prompts[prompt.ID] = prompt
	return nil
}

func (m *MemoryPromptStore) DeletePrompt(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.prompts[id]; !exists {
		return ErrPromptNotFound
	}

	delete(m.prompts, id)
	if m.activeID == id {
		m.activeID = ""
	}
	return nil
}

func (m *MemoryPromptStore) ListPrompts() ([]*model.SystemPrompt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	prompts := make([]*model.SystemPrompt, 0, len(m.prompts))
	for _, prompt := range m.prompts {
		copied := *prompt
		prompts = append(prompts, &copied)
	}

	return prompts, nil
}

func (m *MemoryPromptStore) ActivePromptID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.activeID
}

func (m *MemoryPromptStore) SetActivePrompt(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id != "" {
		if _, exists := m.prompts[id]; !exists {
			return ErrPromptNotFound
		}
	}

	m.activeID = id
	return nil
}

// MemoryTranscript 只追加的进程内转写记录，编辑操作之外永不收缩
type MemoryTranscript struct {
	messages []model.Message
	mu       sync.RWMutex
}

func NewMemoryTranscript() *MemoryTranscript {
	return &MemoryTranscript{}
}

func (t *MemoryTranscript) Append(message model.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.messages = append(t.messages, message)
}

func (t *MemoryTranscript) Messages() []model.Message {
	t.mu.RLock()
	defer t.mu.RUnlock()

	messages := make([]model.Message, len(t.messages))
	copy(messages, t.messages)
	return messages
}

func (t *MemoryTranscript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.messages)
}

func (t *MemoryTranscript) TruncateAfter(index int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if index < 0 || index >= len(t.messages) {
		return
	}
	t.messages = t.messages[:index+1]
}

func (t *MemoryTranscript) UpdateText(index int, text string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if index < 0 || index >= len(t.messages) {
		return
	}
	t.messages[index].Text = text
}

func (t *MemoryTranscript) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.messages = nil
}
