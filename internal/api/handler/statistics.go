package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/vfg2006/adlibrary-tracker/internal/domain"
	"github.com/vfg2006/adlibrary-tracker/pkg/apiErrors"
	"github.com/vfg2006/adlibrary-tracker/pkg/log"
	"github.com/vfg2006/adlibrary-tracker/pkg/utils"
)

const maxStatisticsLimit = 1000

// ListStatistics serves the statistics history mirrored to the database.
// Accepts brand, start_date, end_date (YYYY-MM-DD) and limit.
func ListStatistics(lister StatisticsLister) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		if lister == nil {
			apiErrors.WriteError(w, apiErrors.ErrServiceUnavailable, "statistics history is not configured", nil)
			return
		}

		query := r.URL.Query()

		startDate, err := utils.ParseDate(query.Get("start_date"))
		if err != nil {
			logger.WithFields(log.Fields{
				"start_date": query.Get("start_date"),
				"error":      err.Error(),
			}).Warn("statistics: invalid start_date parameter")
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "start_date must be YYYY-MM-DD", nil)
			return
		}

		endDate, err := utils.ParseDate(query.Get("end_date"))
		if err != nil {
			logger.WithFields(log.Fields{
				"end_date": query.Get("end_date"),
				"error":    err.Error(),
			}).Warn("statistics: invalid end_date parameter")
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "end_date must be YYYY-MM-DD", nil)
			return
		}
		if endDate != nil {
			end := utils.EndOfDay(*endDate)
			endDate = &end
		}

		if startDate != nil && endDate != nil && endDate.Before(*startDate) {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "end_date is before start_date", nil)
			return
		}

		var limit uint64
		if raw := query.Get("limit"); raw != "" {
			limit, err = strconv.ParseUint(raw, 10, 64)
			if err != nil || limit == 0 || limit > maxStatisticsLimit {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "limit must be between 1 and 1000", nil)
				return
			}
		}

		filter := domain.StatisticsFilter{
			Brand:     query.Get("brand"),
			StartDate: startDate,
			EndDate:   endDate,
			Limit:     limit,
		}

		stats, err := lister.List(r.Context(), filter)
		if err != nil {
			logger.WithFields(log.Fields{
				"brand": filter.Brand,
				"error": err.Error(),
			}).Error("statistics: failed to list statistics")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "error listing statistics", nil)
			return
		}

		logger.WithFields(log.Fields{
			"brand": filter.Brand,
			"rows":  len(stats),
		}).Debug("statistics: listed")

		writeJSON(w, r, http.StatusOK, map[string]any{
			"data":         stats,
			"generated_at": time.Now().Format(time.RFC3339),
		})
	})
}
