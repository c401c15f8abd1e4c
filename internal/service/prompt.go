package service

import (
	"fmt"
	"strings"

	"overlay-backend/internal/model"
)

// Summarizer 把被裁剪掉的历史压缩成一行摘要
type Summarizer interface {
	Summarize(dropped []model.Message) string
}

const summaryHeadLen = 40

// HeadlineSummarizer 引用最早和最晚被丢弃消息的前 40 个字符
type HeadlineSummarizer struct{}

func (HeadlineSummarizer) Summarize(dropped []model.Message) string {
	if len(dropped) == 0 {
		return ""
	}

	first := truncateString(dropped[0].Text, summaryHeadLen)
	last := truncateString(dropped[len(dropped)-1].Text, summaryHeadLen)
	return fmt.Sprintf("[Summary of %d earlier messages: from %q to %q]", len(dropped), first, last)
}

func truncateString(str string, maxLen int) string {
	runes := []rune(str)
	if len(runes) <= maxLen {
		return str
	}
	return string(runes[:maxLen]) + "..."
}

// Assembler 把无界的转写记录组装成有界的文本提示。
// 统一使用固定 token 预算裁剪：所有调用路径一个纪律，不混用全量序列化。
type Assembler struct {
	estimator  Estimator
	summarizer Summarizer
	budget     int
}

func NewAssembler(estimator Estimator, summarizer Summarizer, budget int) *Assembler {
	if budget <= 0 {
		budget = 1000
	}
	return &Assembler{
		estimator:  estimator,
		summarizer: summarizer,
		budget:     budget,
	}
}

// Build 从最新消息向前累计 token 估算，在超出预算前停下；
// 被丢弃的旧前缀替换成一行摘要。输出按时间正序排列：
// 可选系统提示行、可选摘要行、保留的消息行。
func (a *Assembler) Build(systemPrompt string, history []model.Message) string {
	cut := 0
	total := 0
	for i := len(history) - 1; i >= 0; i-- {
		cost := a.estimator.Estimate(history[i].Text)
		if total+cost > a.budget {
			cut = i + 1
			break
		}
		total += cost
	}

	retained := history[cut:]
	dropped := history[:cut]

	var lines []string
	if systemPrompt != "" {
		lines = append(lines, systemPrompt)
	}
	if summary := a.summarizer.Summarize(dropped); summary != "" {
		lines = append(lines, summary)
	}
	for _, message := range retained {
		lines = append(lines, renderMessage(message))
	}

	return strings.Join(lines, "\n")
}

func renderMessage(message model.Message) string {
	if message.Role == model.RoleUser {
		return "User: " + message.Text
	}
	return "Assistant: " + message.Text
}
