package worker

import (
	"github.com/spec-kit/attendance-service/internal/service"
)

// StartStatsWorker registers dashboard cache-invalidation handlers.
func StartStatsWorker(statsService *service.StatsService) {
	if statsService == nil {
		return
	}
	statsService.RegisterHandlers()
}
