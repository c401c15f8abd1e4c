package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"overlay-backend/internal/model"
	"overlay-backend/pkg/logger"
)

type DiskPromptStore struct {
	dataDir  string
	prompts  map[string]*model.SystemPrompt
	activeID string
	mu       sync.RWMutex
}

type promptFile struct {
	Prompts  []*model.SystemPrompt `json:"prompts"`
	ActiveID string                `json:"active_id"`
}

func NewDiskPromptStore(dataDir string) *DiskPromptStore {
	return &DiskPromptStore{
		dataDir: dataDir,
		prompts: make(map[string]*model.SystemPrompt),
	}
}

func (d *DiskPromptStore) Init() error {
	if err := os.MkdirAll(d.dataDir, 0755); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageInit, err)
	}

	if err := d.load(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageInit, err)
	}

	logger.Info("Prompt store initialized successfully")
	return nil
}

func (d *DiskPromptStore) Close() error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.save()
}

func (d *DiskPromptStore) filePath() string {
	return filepath.Join(d.dataDir, "prompts.json")
}

func (d *DiskPromptStore) load() error {
	path := d.filePath()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var file promptFile
	if err := json.Unmarshal(data, &file); err != nil {
		return err
	}

	for _, prompt := range file.Prompts {
		d.prompts[prompt.ID] = prompt
	}
	if _, exists := d.prompts[file.ActiveID]; exists {
		d.activeID = file.ActiveID
	}

	return nil
}

// save 写临时文件后原子替换，调用方负责持锁
func (d *DiskPromptStore) save() error {
	prompts := make([]*model.SystemPrompt, 0, len(d.prompts))
	for _, prompt := range d.prompts {
		prompts = append(prompts, prompt)
	}
	sort.Slice(prompts, func(i, j int) bool {
		return prompts[i].CreatedAt.Before(prompts[j].CreatedAt)
	})

	data, err := json.MarshalIndent(promptFile{Prompts: prompts, ActiveID: d.activeID}, "", "  ")
	if err != nil {
		return err
	}

	path := d.filePath()
	tempPath := path + ".tmp"

	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return err
	}

	return os.Rename(tempPath, path)
}

func (d *DiskPromptStore) CreatePrompt(prompt *model.SystemPrompt) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.prompts[prompt.ID] = prompt
	return d.save()
}

func (d *DiskPromptStore) GetPrompt(id string) (*model.SystemPrompt, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	prompt, exists := d.prompts[id]
	if !exists {
		return nil, ErrPromptNotFound
	}

	copied := *prompt
	return &copied, nil
}

func (d *DiskPromptStore) UpdatePrompt(prompt *model.SystemPrompt) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.prompts[prompt.ID]; !exists {
		return ErrPromptNotFound
	}

	d.prompts[prompt.ID] = prompt
	return d.save()
}

func (d *DiskPromptStore) DeletePrompt(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.prompts[id]; !exists {
		return ErrPromptNotFound
	}

	delete(d.prompts, id)
	if d.activeID == id {
		d.activeID = ""
	}
	return d.save()
}

func (d *DiskPromptStore) ListPrompts() ([]*model.SystemPrompt, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	prompts := make([]*model.SystemPrompt, 0, len(d.prompts))
	for _, prompt := range d.prompts {
		copied := *prompt
		prompts = append(prompts, &copied)
	}
	sort.Slice(prompts, func(i, j int) bool {
		return prompts[i].CreatedAt.Before(prompts[j].CreatedAt)
	})

	return prompts, nil
}

func (d *DiskPromptStore) ActivePromptID() string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.activeID
}

func (d *DiskPromptStore) SetActivePrompt(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if id != "" {
		if _, exists := d.prompts[id]; !exists {
			return ErrPromptNotFound
		}
	}

	d.activeID = id
	return d.save()
}
