package main

import (
	"github.com/hibiken/asynq"

	designJob "sunkissed-backend/internal/domains/design/job"
	mediaJob "sunkissed-backend/internal/domains/media/job"
	"sunkissed-backend/internal/shared"
	"sunkissed-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	// Design handlers
	recordView      *designJob.RecordViewHandler
	refreshTrending *designJob.RefreshTrendingHandler

	// Media handlers
	processUpload *mediaJob.ProcessUploadHandler
	deleteUpload  *mediaJob.DeleteUploadHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		recordView:      designJob.NewRecordViewHandler(c.DesignService),
		refreshTrending: designJob.NewRefreshTrendingHandler(c.DesignService),

		processUpload: mediaJob.NewProcessUploadHandler(c.UploadService),
		deleteUpload:  mediaJob.NewDeleteUploadHandler(c.UploadService),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	// Design tasks
	mux.HandleFunc(shared.TypeRecordDesignView, h.recordView.ProcessTask)
	mux.HandleFunc(shared.TypeRefreshTrending, h.refreshTrending.ProcessTask)

	// Media tasks
	mux.HandleFunc(shared.TypeProcessUploadImage, h.processUpload.ProcessTask)
	mux.HandleFunc(shared.TypeDeleteUploadObjects, h.deleteUpload.ProcessTask)
}
