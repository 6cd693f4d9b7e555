package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Cyclone1070/otagent/internal/agent"
	"github.com/Cyclone1070/otagent/internal/orchestrator"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockHandler struct {
	HandleEventFunc func(ctx context.Context, req agent.EventRequest) (*agent.RunResult, error)
	lastRequest     agent.EventRequest
}

func (m *mockHandler) HandleEvent(ctx context.Context, req agent.EventRequest) (*agent.RunResult, error) {
	m.lastRequest = req
	if m.HandleEventFunc != nil {
		return m.HandleEventFunc(ctx, req)
	}
	return &agent.RunResult{RunID: "run-1", Output: "done", Rounds: 1}, nil
}

func doRequest(t *testing.T, handler EventHandler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	srv := New(handler, zerolog.Nop())
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestTriggerAgent_Success(t *testing.T) {
	handler := &mockHandler{
		HandleEventFunc: func(ctx context.Context, req agent.EventRequest) (*agent.RunResult, error) {
			return &agent.RunResult{RunID: "run-42", Output: "Deployed version 2.0.", Rounds: 5}, nil
		},
	}

	rec := doRequest(t, handler, http.MethodPost, "/trigger-agent",
		`{"device_id":"device-001","event_details":"Sensor B is erratic."}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decodeBody[triggerResponse](t, rec)
	assert.True(t, body.Success)
	assert.Equal(t, "Deployed version 2.0.", body.AgentOutput)

	assert.Equal(t, "device-001", handler.lastRequest.DeviceID)
	assert.Nil(t, handler.lastRequest.Policy)
}

func TestTriggerAgent_PolicyPassedThrough(t *testing.T) {
	handler := &mockHandler{}

	rec := doRequest(t, handler, http.MethodPost, "/trigger-agent",
		`{"device_id":"device-001","event_details":"x","policy":"only tune thresholds"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, handler.lastRequest.Policy)
	assert.Equal(t, "only tune thresholds", *handler.lastRequest.Policy)
}

func TestTriggerAgent_ValidationError(t *testing.T) {
	handler := &mockHandler{
		HandleEventFunc: func(ctx context.Context, req agent.EventRequest) (*agent.RunResult, error) {
			return nil, &agent.ValidationError{Field: "device_id"}
		},
	}

	rec := doRequest(t, handler, http.MethodPost, "/trigger-agent", `{"event_details":"x"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody[errorResponse](t, rec)
	assert.Equal(t, "missing required field: device_id", body.Error)
}

func TestTriggerAgent_OracleUnavailable(t *testing.T) {
	handler := &mockHandler{
		HandleEventFunc: func(ctx context.Context, req agent.EventRequest) (*agent.RunResult, error) {
			return nil, orchestrator.ErrOracleUnavailable
		},
	}

	rec := doRequest(t, handler, http.MethodPost, "/trigger-agent",
		`{"device_id":"device-001","event_details":"x"}`)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestTriggerAgent_InvalidJSON(t *testing.T) {
	rec := doRequest(t, &mockHandler{}, http.MethodPost, "/trigger-agent", `{not json`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody[errorResponse](t, rec)
	assert.Equal(t, "invalid JSON body", body.Error)
}

func TestTriggerAgent_MethodNotAllowed(t *testing.T) {
	rec := doRequest(t, &mockHandler{}, http.MethodGet, "/trigger-agent", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealth(t *testing.T) {
	rec := doRequest(t, &mockHandler{}, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string]string](t, rec)
	assert.Equal(t, "healthy", body["status"])
}

func TestHealth_PostRejected(t *testing.T) {
	rec := doRequest(t, &mockHandler{}, http.MethodPost, "/health", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(&agent.ValidationError{Field: "policy"}))
	assert.Equal(t, http.StatusBadGateway, statusFor(orchestrator.ErrOracleUnavailable))
	assert.Equal(t, http.StatusInternalServerError, statusFor(assert.AnError))
}
