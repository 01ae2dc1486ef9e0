package handler_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/adlibrary-tracker/internal/api/handler"
	"github.com/vfg2006/adlibrary-tracker/internal/api/handler/mocks"
	"github.com/vfg2006/adlibrary-tracker/internal/api/handler/router"
	"github.com/vfg2006/adlibrary-tracker/internal/domain"
	"github.com/vfg2006/adlibrary-tracker/pkg/apiErrors"
	"github.com/vfg2006/adlibrary-tracker/pkg/middleware"
	"go.uber.org/mock/gomock"
)

const secret = "test-secret"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func bearer(t *testing.T, role string) string {
	t.Helper()
	token, err := middleware.NewToken(secret, "tester", role, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func serve(rt http.Handler, method, target, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	rt.ServeHTTP(rec, req)
	return rec
}

func TestHealthcheck(t *testing.T) {
	rt := router.New(router.WithRoutes(handler.Healthcheck()...))

	rec := serve(rt, http.MethodGet, "/healthcheck", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestTriggerSync(t *testing.T) {
	t.Run("starts a run", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockSyncService(ctrl)
		service.EXPECT().TriggerManualSync().Return(true)

		rt := router.New(router.WithRoutes(handler.Sync(service, secret)...))
		rec := serve(rt, http.MethodPost, "/v1/sync", bearer(t, middleware.RoleAdmin))

		assert.Equal(t, http.StatusAccepted, rec.Code)
	})

	t.Run("run already in progress", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockSyncService(ctrl)
		service.EXPECT().TriggerManualSync().Return(false)
		service.EXPECT().GetStatus().Return(map[string]any{"sync_running": true})

		rt := router.New(router.WithRoutes(handler.Sync(service, secret)...))
		rec := serve(rt, http.MethodPost, "/v1/sync", bearer(t, middleware.RoleAdmin))

		assert.Equal(t, http.StatusConflict, rec.Code)

		var body apiErrors.APIError
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, apiErrors.ErrSyncRunning, body.Code)
	})

	t.Run("viewer is refused", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockSyncService(ctrl)

		rt := router.New(router.WithRoutes(handler.Sync(service, secret)...))
		rec := serve(rt, http.MethodPost, "/v1/sync", bearer(t, middleware.RoleViewer))

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("anonymous is refused", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockSyncService(ctrl)

		rt := router.New(router.WithRoutes(handler.Sync(service, secret)...))
		rec := serve(rt, http.MethodPost, "/v1/sync", "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestGetSyncStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := mocks.NewMockSyncService(ctrl)
	service.EXPECT().GetStatus().Return(map[string]any{
		"sync_running": false,
		"last_run_id":  "abc",
	})

	rt := router.New(router.WithRoutes(handler.Sync(service, secret)...))
	rec := serve(rt, http.MethodGet, "/v1/sync/status", bearer(t, middleware.RoleAdmin))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "abc", body["last_run_id"])
	assert.Equal(t, false, body["sync_running"])
}

func TestListStatistics(t *testing.T) {
	observedAt := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	stats := []domain.Statistics{{
		Timestamp:   "2024-03-01 11:00:00",
		Brand:       "Acme",
		TotalActive: 4,
		NewAds:      1,
		ObservedAt:  observedAt,
	}}

	t.Run("forwards the filter", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		lister := mocks.NewMockStatisticsLister(ctrl)

		start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2024, 3, 2, 23, 59, 59, 0, time.UTC)
		lister.EXPECT().
			List(gomock.Any(), domain.StatisticsFilter{
				Brand:     "Acme",
				StartDate: &start,
				EndDate:   &end,
				Limit:     10,
			}).
			Return(stats, nil)

		rt := router.New(router.WithRoutes(handler.Statistics(lister, secret)...))
		rec := serve(rt, http.MethodGet, "/v1/statistics?brand=Acme&start_date=2024-03-01&end_date=2024-03-02&limit=10", bearer(t, middleware.RoleViewer))

		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Data []domain.Statistics `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Data, 1)
		assert.Equal(t, "Acme", body.Data[0].Brand)
		assert.Equal(t, 4, body.Data[0].TotalActive)
	})

	t.Run("bad parameters", func(t *testing.T) {
		cases := []string{
			"/v1/statistics?start_date=01-03-2024",
			"/v1/statistics?end_date=tomorrow",
			"/v1/statistics?limit=0",
			"/v1/statistics?limit=abc",
			"/v1/statistics?start_date=2024-03-05&end_date=2024-03-01",
		}

		for _, target := range cases {
			ctrl := gomock.NewController(t)
			lister := mocks.NewMockStatisticsLister(ctrl)

			rt := router.New(router.WithRoutes(handler.Statistics(lister, secret)...))
			rec := serve(rt, http.MethodGet, target, bearer(t, middleware.RoleAdmin))

			assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		}
	})

	t.Run("repository failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		lister := mocks.NewMockStatisticsLister(ctrl)
		lister.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

		rt := router.New(router.WithRoutes(handler.Statistics(lister, secret)...))
		rec := serve(rt, http.MethodGet, "/v1/statistics", bearer(t, middleware.RoleAdmin))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("history not configured", func(t *testing.T) {
		rt := router.New(router.WithRoutes(handler.Statistics(nil, secret)...))
		rec := serve(rt, http.MethodGet, "/v1/statistics", bearer(t, middleware.RoleAdmin))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
