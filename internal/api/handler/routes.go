package handler

import (
	"net/http"

	"github.com/vfg2006/adlibrary-tracker/internal/api/handler/router"
	"github.com/vfg2006/adlibrary-tracker/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Sync(service SyncService, secret string) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/sync",
			Method:      http.MethodPost,
			Handler:     TriggerSync(service),
			Middlewares: middleware.AdminOnly(secret),
		},
		{
			Path:        "/v1/sync/status",
			Method:      http.MethodGet,
			Handler:     GetSyncStatus(service),
			Middlewares: middleware.AdminOnly(secret),
		},
	}
}

func Statistics(lister StatisticsLister, secret string) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/statistics",
			Method:      http.MethodGet,
			Handler:     ListStatistics(lister),
			Middlewares: middleware.AnyRole(secret),
		},
	}
}
