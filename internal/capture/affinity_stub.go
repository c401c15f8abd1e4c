//go:build !windows

package capture

// 非 Windows 平台的兜底实现

type stubAffinity struct{}

func newAffinityAPI() (affinityAPI, bool) {
	return stubAffinity{}, false
}

func (stubAffinity) setWindowDisplayAffinity(uintptr, int) bool { return false }
func (stubAffinity) resetWindowDisplayAffinity(uintptr) bool    { return false }
func (stubAffinity) getWindowDisplayAffinity(uintptr) int       { return -1 }
