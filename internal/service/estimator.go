package service

import (
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"overlay-backend/pkg/logger"
)

// Estimator 估算一段文本的 token 开销。估算是可替换策略，
// 裁剪算法本身不关心具体实现。
type Estimator interface {
	Estimate(text string) int
}

// WordCountEstimator 按空白切词后乘以 1.3 向上取整
type WordCountEstimator struct{}

func (WordCountEstimator) Estimate(text string) int {
	words := len(strings.Fields(text))
	return (words*13 + 9) / 10
}

// TiktokenEstimator 用 cl100k_base 编码做精确计数
type TiktokenEstimator struct {
	encoding *tiktoken.Tiktoken
}

func (e *TiktokenEstimator) Estimate(text string) int {
	return len(e.encoding.Encode(text, nil, nil))
}

// NewEstimator 按配置选择实现，tiktoken 初始化失败时退回词数估算
func NewEstimator(kind string) Estimator {
	if kind == "tiktoken" {
		encoding, err := tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			logger.Warnf("Failed to load tiktoken encoding, falling back to word count: %v", err)
			return WordCountEstimator{}
		}
		return &TiktokenEstimator{encoding: encoding}
	}
	return WordCountEstimator{}
}
