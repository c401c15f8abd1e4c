package capture

import (
	"overlay-backend/pkg/logger"
)

// Windows 显示亲和性常量，非 Windows 平台沿用同样的取值
const (
	AffinityNone               = 0
	AffinityMonitor            = 1
	AffinityExcludeFromCapture = 2
)

// affinityAPI 是平台原生实现，按构建标签选择
type affinityAPI interface {
	setWindowDisplayAffinity(handle uintptr, affinity int) bool
	resetWindowDisplayAffinity(handle uintptr) bool
	getWindowDisplayAffinity(handle uintptr) int
}

// Gateway 把"窗口排除出屏幕捕获"能力包装成一组小函数。
// 平台不支持时所有调用退化为 false / -1，永不向调用方抛错。
type Gateway struct {
	native    affinityAPI
	supported bool
}

func NewGateway() *Gateway {
	native, supported := newAffinityAPI()
	if !supported {
		logger.Warn("Screen capture protection is not available on this platform")
	} else {
		logger.Info("Screen capture protection module loaded successfully")
	}

	return &Gateway{native: native, supported: supported}
}

func (g *Gateway) Supported() bool {
	return g.supported
}

func (g *Gateway) SetWindowDisplayAffinity(handle uintptr, affinity int) bool {
	return g.native.setWindowDisplayAffinity(handle, affinity)
}

func (g *Gateway) ResetWindowDisplayAffinity(handle uintptr) bool {
	return g.native.resetWindowDisplayAffinity(handle)
}

// GetWindowDisplayAffinity 返回当前亲和性，出错时返回 -1
func (g *Gateway) GetWindowDisplayAffinity(handle uintptr) int {
	return g.native.getWindowDisplayAffinity(handle)
}

func (g *Gateway) HideFromCapture(handle uintptr) bool {
	return g.native.setWindowDisplayAffinity(handle, AffinityExcludeFromCapture)
}

func (g *Gateway) ShowInCapture(handle uintptr) bool {
	return g.native.resetWindowDisplayAffinity(handle)
}
