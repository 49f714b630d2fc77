package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/erp/amazon-sync/internal/application/ordersync"
	"github.com/erp/amazon-sync/internal/infrastructure/scheduler"
)

type fakeTrigger struct {
	summary *ordersync.Summary
	err     error
	opts    ordersync.SyncOptions
	history []*ordersync.Summary
	limit   int
}

func (f *fakeTrigger) TriggerNow(_ context.Context, opts ordersync.SyncOptions) (*ordersync.Summary, error) {
	f.opts = opts
	if f.err != nil {
		return nil, f.err
	}
	return f.summary, nil
}

func (f *fakeTrigger) History(limit int) []*ordersync.Summary {
	f.limit = limit
	return f.history
}

func setupRouter(trigger SyncTrigger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	h := NewSyncHandler(trigger, zap.NewNop())
	h.RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func TestSyncHandler_Trigger(t *testing.T) {
	t.Run("triggers a pass and returns the summary", func(t *testing.T) {
		trigger := &fakeTrigger{summary: &ordersync.Summary{RunID: uuid.New(), Created: 3}}
		engine := setupRouter(trigger)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/sync", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
	})

	t.Run("passes window overrides through", func(t *testing.T) {
		trigger := &fakeTrigger{summary: &ordersync.Summary{RunID: uuid.New()}}
		engine := setupRouter(trigger)

		body := `{"created_after":"2024-03-01T00:00:00Z","created_before":"2024-03-10T00:00:00Z"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/sync", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2024-03-01T00:00:00Z", trigger.opts.CreatedAfter)
		assert.Equal(t, "2024-03-10T00:00:00Z", trigger.opts.CreatedBefore)
	})

	t.Run("rejects malformed timestamps", func(t *testing.T) {
		bodies := map[string]string{
			"wrong layout":       `{"created_after":"03/01/2024"}`,
			"zone offset":        `{"created_before":"2024-03-01T00:00:00+02:00"}`,
			"date without time":  `{"created_after":"2024-03-01"}`,
			"one of two invalid": `{"created_after":"2024-03-01T00:00:00Z","created_before":"later"}`,
		}

		for name, body := range bodies {
			t.Run(name, func(t *testing.T) {
				trigger := &fakeTrigger{summary: &ordersync.Summary{}}
				engine := setupRouter(trigger)

				req := httptest.NewRequest(http.MethodPost, "/api/v1/sync", strings.NewReader(body))
				req.Header.Set("Content-Type", "application/json")
				w := httptest.NewRecorder()
				engine.ServeHTTP(w, req)

				assert.Equal(t, http.StatusBadRequest, w.Code)

				var resp Response
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				require.NotNil(t, resp.Error)
				assert.Equal(t, ErrCodeBadRequest, resp.Error.Code)
			})
		}
	})

	t.Run("accepts an empty window object", func(t *testing.T) {
		trigger := &fakeTrigger{summary: &ordersync.Summary{RunID: uuid.New()}}
		engine := setupRouter(trigger)

		body := `{"created_after":"","created_before":""}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/sync", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "", trigger.opts.CreatedAfter)
	})

	t.Run("returns 409 when a pass is running", func(t *testing.T) {
		trigger := &fakeTrigger{err: scheduler.ErrSyncInProgress}
		engine := setupRouter(trigger)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/sync", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)

		var resp Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, ErrCodeSyncInProgress, resp.Error.Code)
	})

	t.Run("returns 503 when trigger is stopped", func(t *testing.T) {
		trigger := &fakeTrigger{err: scheduler.ErrTriggerNotRunning}
		engine := setupRouter(trigger)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/sync", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("returns 500 on pass failure", func(t *testing.T) {
		trigger := &fakeTrigger{err: errors.New("token exchange failed")}
		engine := setupRouter(trigger)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/sync", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestSyncHandler_Runs(t *testing.T) {
	t.Run("lists recent runs with default limit", func(t *testing.T) {
		trigger := &fakeTrigger{history: []*ordersync.Summary{
			{RunID: uuid.New(), Created: 1},
			{RunID: uuid.New(), Skipped: 2},
		}}
		engine := setupRouter(trigger)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/sync/runs", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, defaultRunsLimit, trigger.limit)

		var resp Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
	})

	t.Run("honors explicit limit", func(t *testing.T) {
		trigger := &fakeTrigger{}
		engine := setupRouter(trigger)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/sync/runs?limit=5", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 5, trigger.limit)
	})

	t.Run("rejects non-positive limit", func(t *testing.T) {
		trigger := &fakeTrigger{}
		engine := setupRouter(trigger)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/sync/runs?limit=0", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
