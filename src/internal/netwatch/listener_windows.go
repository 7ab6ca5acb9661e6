//go:build windows

package netwatch

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/maksimkurb/njupt-wifi-login/src/internal/log"
	"golang.org/x/sys/windows"
)

var (
	modiphlpapi = windows.NewLazySystemDLL("iphlpapi.dll")

	procNotifyNetworkConnectivityHintChange = modiphlpapi.NewProc("NotifyNetworkConnectivityHintChange")
	procGetNetworkConnectivityHint          = modiphlpapi.NewProc("GetNetworkConnectivityHint")
	procCancelMibChangeNotify2              = modiphlpapi.NewProc("CancelMibChangeNotify2")
)

// NL_NETWORK_CONNECTIVITY_LEVEL_HINT values.
const (
	connectivityLevelUnknown                   = 0
	connectivityLevelNone                      = 1
	connectivityLevelLocalAccess               = 2
	connectivityLevelInternetAccess            = 3
	connectivityLevelConstrainedInternetAccess = 4
	connectivityLevelHidden                    = 5
)

// networkConnectivityHint mirrors NL_NETWORK_CONNECTIVITY_HINT.
type networkConnectivityHint struct {
	ConnectivityLevel    int32
	ConnectivityCost     int32
	ApproachingDataLimit uint8
	OverDataLimit        uint8
	Roaming              uint8
}

// The OS calls one shared callback; the caller context is an id into registrations.
// No Go pointer is handed to the OS.
var (
	callbackOnce  sync.Once
	callbackPtr   uintptr
	registryMu    sync.Mutex
	registry      = map[uintptr]*hintHandle{}
	nextHandleKey uintptr
)

func hintCallback(callerContext uintptr, _ uintptr) uintptr {
	registryMu.Lock()
	h := registry[callerContext]
	registryMu.Unlock()
	if h == nil {
		return 0
	}

	level, err := currentConnectivityLevel()
	if err != nil {
		log.Debugf("Failed to read connectivity hint: %v", err)
		return 0
	}
	h.forward(level)
	return 0
}

func currentConnectivityLevel() (int32, error) {
	var hint networkConnectivityHint
	ret, _, _ := procGetNetworkConnectivityHint.Call(uintptr(unsafe.Pointer(&hint)))
	if ret != 0 {
		return connectivityLevelUnknown, fmt.Errorf("GetNetworkConnectivityHint: status 0x%x", ret)
	}
	return hint.ConnectivityLevel, nil
}

type hintListener struct{}

// New returns a listener for connectivity hint changes. Windows does not
// filter by interface; the hint is system wide.
func New(string) Listener {
	return hintListener{}
}

// InitialNotification is true: registration asks the OS for an initial callback.
func (hintListener) InitialNotification() bool {
	return true
}

// notifyHintChange registers the shared callback for ctx. Replaced in tests.
var notifyHintChange = func(ctx uintptr, initialNotification bool, handle *windows.Handle) error {
	if err := procNotifyNetworkConnectivityHintChange.Find(); err != nil {
		return fmt.Errorf("NotifyNetworkConnectivityHintChange unavailable: %w", err)
	}
	callbackOnce.Do(func() {
		callbackPtr = windows.NewCallback(hintCallback)
	})

	var initial uintptr
	if initialNotification {
		initial = 1
	}
	ret, _, _ := procNotifyNetworkConnectivityHintChange.Call(callbackPtr, ctx, initial, uintptr(unsafe.Pointer(handle)))
	if ret != 0 {
		return fmt.Errorf("NotifyNetworkConnectivityHintChange: status 0x%x", ret)
	}
	return nil
}

func (hintListener) Register(onChange func() bool) (Handle, error) {
	h := &hintHandle{onChange: onChange}

	registryMu.Lock()
	nextHandleKey++
	h.key = nextHandleKey
	registry[h.key] = h
	registryMu.Unlock()

	// The OS delivers one notification right after registration. That is the
	// startup wake on Windows, so InitialNotification reports true and the
	// daemon does not send its own. It goes through the same level filter as
	// later changes.
	if err := notifyHintChange(h.key, true, &h.osHandle); err != nil {
		h.unregister()
		return nil, err
	}
	return h, nil
}

type hintHandle struct {
	key      uintptr
	osHandle windows.Handle
	onChange func() bool

	mu      sync.Mutex
	stopped bool
	once    sync.Once
}

// forward wakes the consumer when the hint says a portal may be in the way.
func (h *hintHandle) forward(level int32) {
	log.Debugf("Connectivity hint changed: level %d", level)
	if level == connectivityLevelConstrainedInternetAccess || level == connectivityLevelLocalAccess {
		h.fire()
	}
}

func (h *hintHandle) fire() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return
	}
	if !h.onChange() {
		h.stopped = true
	}
}

func (h *hintHandle) unregister() {
	registryMu.Lock()
	delete(registry, h.key)
	registryMu.Unlock()
}

func (h *hintHandle) Close() error {
	var err error
	h.once.Do(func() {
		h.mu.Lock()
		h.stopped = true
		h.mu.Unlock()

		if h.osHandle != 0 {
			ret, _, _ := procCancelMibChangeNotify2.Call(uintptr(h.osHandle))
			if ret != 0 {
				err = fmt.Errorf("CancelMibChangeNotify2: status 0x%x", ret)
			}
		}
		h.unregister()
	})
	return err
}
