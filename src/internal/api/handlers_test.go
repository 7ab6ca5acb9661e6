package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maksimkurb/njupt-wifi-login/src/internal/config"
	"github.com/maksimkurb/njupt-wifi-login/src/internal/daemon"
	apperrors "github.com/maksimkurb/njupt-wifi-login/src/internal/errors"
	"github.com/maksimkurb/njupt-wifi-login/src/internal/networking"
	"github.com/maksimkurb/njupt-wifi-login/src/internal/portal"
)

type fakeDaemon struct {
	snapshot  daemon.Snapshot
	accept    bool
	triggered int
}

func (d *fakeDaemon) Snapshot() daemon.Snapshot { return d.snapshot }

func (d *fakeDaemon) TriggerCheck() bool {
	d.triggered++
	return d.accept
}

func newTestHandler(d Daemon) *Handler {
	h := NewHandler(d, nil)
	h.lookupInterface = func(name string) (*networking.InterfaceInfo, error) {
		if name == "wlan0" {
			return &networking.InterfaceInfo{Name: name, Up: true}, nil
		}
		return nil, apperrors.NewInterfaceError("interface "+name+" not found", nil)
	}
	h.listInterfaces = func() ([]networking.InterfaceInfo, error) {
		return []networking.InterfaceInfo{{Name: "lo", Index: 1, Loopback: true}, {Name: "wlan0", Index: 2, Up: true}}, nil
	}
	return h
}

func serve(t *testing.T, h *Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = "127.0.0.1:40000"
	rec := httptest.NewRecorder()
	NewRouter(h).ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, v))
}

func TestGetStatus_BeforeFirstCheck(t *testing.T) {
	d := &fakeDaemon{snapshot: daemon.Snapshot{Running: true, CheckInterval: 20 * time.Minute}}

	rec := serve(t, newTestHandler(d), http.MethodGet, "/api/v1/status")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var status StatusResponse
	decodeData(t, rec, &status)
	assert.True(t, status.Running)
	assert.Equal(t, uint64(1200), status.CheckIntervalSeconds)
	assert.Equal(t, "pending", status.Network.Status)
	assert.Nil(t, status.Login)
	assert.False(t, status.OffHours.Active)
	assert.Nil(t, status.Config)
	assert.Equal(t, Version, status.Version.Version)
}

func TestGetStatus_AfterLogin(t *testing.T) {
	now := time.Date(2024, 3, 1, 23, 30, 0, 0, time.UTC)
	d := &fakeDaemon{snapshot: daemon.Snapshot{
		Running:   true,
		Interface: "wlan0",
		LastStatus: portal.NetworkStatus{
			Status: portal.StatusAuthenticationRequired,
			AP:     &portal.ApInfo{UserIP: "10.163.1.2"},
		},
		LastCheckAt:    now,
		Checks:         3,
		LastLoginAt:    now,
		LastLoginError: apperrors.ErrOffHours,
		Logins:         1,
		OffHoursUntil:  now.Add(7 * time.Hour),
	}}

	rec := serve(t, newTestHandler(d), http.MethodGet, "/api/v1/status")
	require.Equal(t, http.StatusOK, rec.Code)

	var status StatusResponse
	decodeData(t, rec, &status)
	assert.Equal(t, "wlan0", status.Interface)
	assert.Equal(t, "authentication-required", status.Network.Status)
	require.NotNil(t, status.Network.AP)
	assert.Equal(t, "10.163.1.2", status.Network.AP.UserIP)
	assert.Equal(t, uint64(3), status.Network.Checks)

	require.NotNil(t, status.Login)
	assert.False(t, status.Login.Succeeded)
	assert.Equal(t, string(apperrors.ErrCodeOffHours), status.Login.ErrorCode)

	assert.True(t, status.OffHours.Active)
	require.NotNil(t, status.OffHours.Until)
	assert.True(t, status.OffHours.Until.Equal(now.Add(7*time.Hour)))
}

func TestGetStatus_Services(t *testing.T) {
	d := &fakeDaemon{snapshot: daemon.Snapshot{
		Running: true,
		Services: []daemon.ServiceStatus{{
			Name:      "status API",
			Running:   true,
			Restarts:  2,
			LastError: errors.New("address already in use"),
		}},
	}}

	rec := serve(t, newTestHandler(d), http.MethodGet, "/api/v1/status")
	require.Equal(t, http.StatusOK, rec.Code)

	var status StatusResponse
	decodeData(t, rec, &status)
	require.Len(t, status.Services, 1)
	assert.Equal(t, ServiceInfo{
		Name:      "status API",
		Running:   true,
		Restarts:  2,
		LastError: "address already in use",
	}, status.Services[0])
}

func TestGetStatus_ReportsOutdatedConfig(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(configFile, []byte("userid = \"B21000000\"\npassword = \"x\"\nisp = \"EDU\"\n"), 0600))

	hasher := config.NewConfigHasher(configFile)
	hasher.SetActiveConfigHash("0123456789abcdef0123456789abcdef")

	h := newTestHandler(&fakeDaemon{})
	h.configHasher = hasher

	rec := serve(t, h, http.MethodGet, "/api/v1/status")
	require.Equal(t, http.StatusOK, rec.Code)

	var status StatusResponse
	decodeData(t, rec, &status)
	require.NotNil(t, status.Config)
	assert.Len(t, status.Config.CurrentHash, 32)
	assert.True(t, status.Config.Outdated)
}

func TestTriggerCheck(t *testing.T) {
	d := &fakeDaemon{accept: true}

	rec := serve(t, newTestHandler(d), http.MethodPost, "/api/v1/check")
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, 1, d.triggered)

	var resp CheckResponse
	decodeData(t, rec, &resp)
	assert.True(t, resp.Queued)
}

func TestTriggerCheck_NotRunning(t *testing.T) {
	rec := serve(t, newTestHandler(&fakeDaemon{}), http.MethodPost, "/api/v1/check")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, ErrCodeServiceUnavailable, resp.Error.Code)
}

func TestTriggerCheck_WrongMethod(t *testing.T) {
	rec := serve(t, newTestHandler(&fakeDaemon{accept: true}), http.MethodGet, "/api/v1/check")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCheckHealth(t *testing.T) {
	tests := []struct {
		name       string
		snapshot   daemon.Snapshot
		wantCode   int
		wantFailed []string
	}{
		{
			name:     "running without interface",
			snapshot: daemon.Snapshot{Running: true},
			wantCode: http.StatusOK,
		},
		{
			name:     "running with present interface",
			snapshot: daemon.Snapshot{Running: true, Interface: "wlan0"},
			wantCode: http.StatusOK,
		},
		{
			name:       "interface gone",
			snapshot:   daemon.Snapshot{Running: true, Interface: "wlan9"},
			wantCode:   http.StatusServiceUnavailable,
			wantFailed: []string{"interface"},
		},
		{
			name:       "loop stopped",
			snapshot:   daemon.Snapshot{},
			wantCode:   http.StatusServiceUnavailable,
			wantFailed: []string{"login_loop"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, newTestHandler(&fakeDaemon{snapshot: tt.snapshot}), http.MethodGet, "/api/v1/health")
			assert.Equal(t, tt.wantCode, rec.Code)

			var health HealthCheckResponse
			decodeData(t, rec, &health)
			assert.Equal(t, len(tt.wantFailed) == 0, health.Healthy)

			var failed []string
			for name, check := range health.Checks {
				if !check.Passed {
					failed = append(failed, name)
				}
			}
			assert.ElementsMatch(t, tt.wantFailed, failed)
		})
	}
}

func TestGetInterfaces(t *testing.T) {
	rec := serve(t, newTestHandler(&fakeDaemon{}), http.MethodGet, "/api/v1/interfaces")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp InterfacesResponse
	decodeData(t, rec, &resp)
	require.Len(t, resp.Interfaces, 2)
	assert.Equal(t, "wlan0", resp.Interfaces[1].Name)
}

func TestGetInterfaces_Error(t *testing.T) {
	h := newTestHandler(&fakeDaemon{})
	h.listInterfaces = func() ([]networking.InterfaceInfo, error) {
		return nil, errors.New("netlink: permission denied")
	}

	rec := serve(t, h, http.MethodGet, "/api/v1/interfaces")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
