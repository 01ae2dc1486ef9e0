package handler

import (
	"net/http"

	"github.com/vfg2006/adlibrary-tracker/pkg/apiErrors"
	"github.com/vfg2006/adlibrary-tracker/pkg/log"
)

// TriggerSync starts a tracking run over every monitored target. A run
// already in flight answers 409.
func TriggerSync(service SyncService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())
		logger.Info("sync: manual trigger requested")

		if !service.TriggerManualSync() {
			logger.Info("sync: run already in progress")
			apiErrors.WriteError(w, apiErrors.ErrSyncRunning, "a sync is already running", service.GetStatus())
			return
		}

		writeJSON(w, r, http.StatusAccepted, map[string]any{
			"message": "sync started",
		})
	})
}

func GetSyncStatus(service SyncService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, service.GetStatus())
	})
}
