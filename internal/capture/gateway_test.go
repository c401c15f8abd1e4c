package capture

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGatewayUnsupportedPlatformDegrades(t *testing.T) {
	g := NewGateway()
	if g.Supported() {
		t.Skip("platform supports display affinity")
	}

	// 不支持的平台上所有操作安静失败，不会 panic
	assert.False(t, g.SetWindowDisplayAffinity(1, AffinityExcludeFromCapture))
	assert.False(t, g.ResetWindowDisplayAffinity(1))
	assert.False(t, g.HideFromCapture(1))
	assert.False(t, g.ShowInCapture(1))
	assert.Equal(t, -1, g.GetWindowDisplayAffinity(1))
}

func TestAffinityConstants(t *testing.T) {
	assert.Equal(t, 0, AffinityNone)
	assert.Equal(t, 1, AffinityMonitor)
	assert.Equal(t, 2, AffinityExcludeFromCapture)
}
