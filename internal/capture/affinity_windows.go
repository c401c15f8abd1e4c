//go:build windows

package capture

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32                 = windows.NewLazySystemDLL("user32.dll")
	procSetDisplayAffinity = user32.NewProc("SetWindowDisplayAffinity")
	procGetDisplayAffinity = user32.NewProc("GetWindowDisplayAffinity")
)

type windowsAffinity struct{}

func newAffinityAPI() (affinityAPI, bool) {
	if err := procSetDisplayAffinity.Find(); err != nil {
		return unsupportedAffinity{}, false
	}
	return windowsAffinity{}, true
}

func (windowsAffinity) setWindowDisplayAffinity(handle uintptr, affinity int) bool {
	ret, _, _ := procSetDisplayAffinity.Call(handle, uintptr(affinity))
	return ret != 0
}

func (windowsAffinity) resetWindowDisplayAffinity(handle uintptr) bool {
	ret, _, _ := procSetDisplayAffinity.Call(handle, uintptr(AffinityNone))
	return ret != 0
}

func (windowsAffinity) getWindowDisplayAffinity(handle uintptr) int {
	var affinity uint32
	ret, _, _ := procGetDisplayAffinity.Call(handle, uintptr(unsafe.Pointer(&affinity)))
	if ret == 0 {
		return -1
	}
	return int(affinity)
}

type unsupportedAffinity struct{}

func (unsupportedAffinity) setWindowDisplayAffinity(uintptr, int) bool { return false }
func (unsupportedAffinity) resetWindowDisplayAffinity(uintptr) bool    { return false }
func (unsupportedAffinity) getWindowDisplayAffinity(uintptr) int       { return -1 }
