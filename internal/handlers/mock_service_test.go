package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"fireplace_bridge/internal/models"
	"fireplace_bridge/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockFireplace struct {
	result      service.ActuationResult
	setOnErr    error
	setFlameErr error
	onCalls     []bool
	flameCalls  []int
}

func (m *mockFireplace) SetOn(ctx context.Context, on bool) (service.ActuationResult, error) {
	m.onCalls = append(m.onCalls, on)
	return m.result, m.setOnErr
}
func (m *mockFireplace) SetFlamePercent(ctx context.Context, percent int) (service.ActuationResult, error) {
	m.flameCalls = append(m.flameCalls, percent)
	return m.result, m.setFlameErr
}

type mockMonitoring struct {
	mu    sync.Mutex
	state models.FireplaceState
	err   error
}

func (m *mockMonitoring) GetState(ctx context.Context) (models.FireplaceState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, m.err
}

func (m *mockMonitoring) set(st models.FireplaceState, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state, m.err = st, err
}

type mockEventLog struct {
	resp     []models.FireplaceEvent
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.FireplaceEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

type mockPoller struct {
	triggers int
}

func (m *mockPoller) Run(ctx context.Context, interval time.Duration) {}
func (m *mockPoller) PollOnce(ctx context.Context) error              { return nil }
func (m *mockPoller) Trigger()                                        { m.triggers++ }
func (m *mockPoller) Snapshot() (models.DeviceSnapshot, bool)         { return models.DeviceSnapshot{}, false }

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
