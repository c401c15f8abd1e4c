package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"overlay-backend/internal/config"
	"overlay-backend/internal/model"
	"overlay-backend/internal/service"
	"overlay-backend/internal/storage"
)

type ChatHandler struct {
	chatService *service.ChatService
	greeting    string
}

func NewChatHandler(chatService *service.ChatService, cfg config.ChatConfig) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		greeting:    cfg.Greeting,
	}
}

func (h *ChatHandler) GetMessages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"messages": h.chatService.Messages(),
	})
}

func (h *ChatHandler) SubmitMessage(c *gin.Context) {
	var req model.SubmitMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Text == "" && len(req.Attachments) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message must carry text or attachments"})
		return
	}

	answer, err := h.chatService.SubmitMessage(c.Request.Context(), req.Text, req.Attachments)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, answer)
}

func (h *ChatHandler) EditMessage(c *gin.Context) {
	messageID := c.Param("message_id")

	var req model.EditMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.chatService.EditMessage(c.Request.Context(), messageID, req.Text); err != nil {
		if errors.Is(err, storage.ErrMessageNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": h.chatService.Messages()})
}

func (h *ChatHandler) ResetContext(c *gin.Context) {
	h.chatService.ResetContext(h.greeting)
	c.JSON(http.StatusOK, gin.H{"message": "Context reset successfully"})
}

// --- 系统提示词 ---

func (h *ChatHandler) CreatePrompt(c *gin.Context) {
	var req model.PromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prompt, err := h.chatService.CreatePrompt(req.Name, req.Content)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, prompt)
}

func (h *ChatHandler) GetPrompt(c *gin.Context) {
	prompt, err := h.chatService.GetPrompt(c.Param("prompt_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, prompt)
}

func (h *ChatHandler) UpdatePrompt(c *gin.Context) {
	var req model.PromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prompt, err := h.chatService.UpdatePrompt(c.Param("prompt_id"), req.Name, req.Content)
	if err != nil {
		if errors.Is(err, storage.ErrPromptNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, prompt)
}

func (h *ChatHandler) DeletePrompt(c *gin.Context) {
	if err := h.chatService.DeletePrompt(c.Param("prompt_id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Prompt deleted successfully"})
}

func (h *ChatHandler) ListPrompts(c *gin.Context) {
	prompts, err := h.chatService.ListPrompts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"prompts": prompts})
}

func (h *ChatHandler) ActivatePrompt(c *gin.Context) {
	var req model.ActivatePromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.chatService.ActivatePrompt(req.ID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Prompt activated successfully"})
}

func (h *ChatHandler) GetActivePrompt(c *gin.Context) {
	prompt, err := h.chatService.ActivePrompt()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"prompt": prompt})
}
