package llm

import (
	"encoding/json"

	"overlay-backend/internal/model"
)

// TextPayload 把纯文本提示编码为旧的字符串载荷
func TextPayload(text string) json.RawMessage {
	body, _ := json.Marshal(text)
	return body
}

// PartsPayload 组装多部件请求体：附件部件在前、文本部件在后，
// 单次请求不携带任何历史上下文
func PartsPayload(text string, attachments []model.Attachment) (json.RawMessage, error) {
	parts := make([]geminiPart, 0, len(attachments)+1)
	for _, att := range attachments {
		parts = append(parts, geminiPart{
			InlineData: &geminiInlineData{MimeType: att.MimeType, Data: att.Data},
		})
	}
	if text != "" {
		parts = append(parts, geminiPart{Text: text})
	}

	return json.Marshal(geminiRequest{Contents: []geminiContent{{Parts: parts}}})
}
