package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"overlay-backend/internal/model"
)

func newPrompt(id, name string, createdAt time.Time) *model.SystemPrompt {
	return &model.SystemPrompt{
		ID:        id,
		Name:      name,
		Content:   "content of " + name,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestDiskPromptStorePersistsAcrossReopen(t *testing.T) {
	dataDir := t.TempDir()
	base := time.Now()

	store := NewDiskPromptStore(dataDir)
	require.NoError(t, store.Init())
	require.NoError(t, store.CreatePrompt(newPrompt("p1", "first", base)))
	require.NoError(t, store.CreatePrompt(newPrompt("p2", "second", base.Add(time.Minute))))
	require.NoError(t, store.SetActivePrompt("p2"))
	require.NoError(t, store.Close())

	reopened := NewDiskPromptStore(dataDir)
	require.NoError(t, reopened.Init())

	prompts, err := reopened.ListPrompts()
	require.NoError(t, err)
	require.Len(t, prompts, 2)
	// 列表按创建时间排序
	assert.Equal(t, "first", prompts[0].Name)
	assert.Equal(t, "second", prompts[1].Name)

	assert.Equal(t, "p2", reopened.ActivePromptID())
}

func TestDiskPromptStoreDeleteClearsActive(t *testing.T) {
	store := NewDiskPromptStore(t.TempDir())
	require.NoError(t, store.Init())

	require.NoError(t, store.CreatePrompt(newPrompt("p1", "first", time.Now())))
	require.NoError(t, store.SetActivePrompt("p1"))
	require.NoError(t, store.DeletePrompt("p1"))

	assert.Equal(t, "", store.ActivePromptID())
	_, err := store.GetPrompt("p1")
	assert.ErrorIs(t, err, ErrPromptNotFound)
}

func TestDiskPromptStoreRejectsUnknownActive(t *testing.T) {
	store := NewDiskPromptStore(t.TempDir())
	require.NoError(t, store.Init())

	assert.ErrorIs(t, store.SetActivePrompt("nope"), ErrPromptNotFound)
	// 空 ID 表示停用，总是合法
	assert.NoError(t, store.SetActivePrompt(""))
}

func TestDiskPromptStoreUpdate(t *testing.T) {
	store := NewDiskPromptStore(t.TempDir())
	require.NoError(t, store.Init())

	prompt := newPrompt("p1", "first", time.Now())
	require.NoError(t, store.CreatePrompt(prompt))

	prompt.Content = "rewritten"
	require.NoError(t, store.UpdatePrompt(prompt))

	loaded, err := store.GetPrompt("p1")
	require.NoError(t, err)
	assert.Equal(t, "rewritten", loaded.Content)

	assert.ErrorIs(t, store.UpdatePrompt(newPrompt("ghost", "ghost", time.Now())), ErrPromptNotFound)
}

func TestMemoryTranscriptEditOperations(t *testing.T) {
	transcript := NewMemoryTranscript()

	for _, text := range []string{"a", "b", "c", "d"} {
		transcript.Append(model.Message{ID: text, Role: model.RoleUser, Text: text})
	}

	transcript.UpdateText(1, "edited")
	transcript.TruncateAfter(1)

	messages := transcript.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, "a", messages[0].Text)
	assert.Equal(t, "edited", messages[1].Text)
	// ID 与角色在改写后保持不变
	assert.Equal(t, "b", messages[1].ID)

	// 越界索引是无操作
	transcript.TruncateAfter(10)
	transcript.UpdateText(-1, "x")
	assert.Equal(t, 2, transcript.Len())

	transcript.Clear()
	assert.Equal(t, 0, transcript.Len())
}

func TestMemoryTranscriptReturnsCopies(t *testing.T) {
	transcript := NewMemoryTranscript()
	transcript.Append(model.Message{ID: "1", Role: model.RoleUser, Text: "original"})

	messages := transcript.Messages()
	messages[0].Text = "mutated"

	assert.Equal(t, "original", transcript.Messages()[0].Text)
}
