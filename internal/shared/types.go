package shared

import (
	"github.com/hibiken/asynq"
)

// Task types
const (
	TypeRecordDesignView    = "design:record_view"
	TypeRefreshTrending     = "design:refresh_trending"
	TypeProcessUploadImage  = "image:process_upload"
	TypeDeleteUploadObjects = "image:delete_upload"
)

// Queues
const (
	QueueDesign = "design"
	QueueMedia  = "media"
	QueueLow    = "low"
)

// QueuePriorities is the weight map handed to the asynq server.
var QueuePriorities = map[string]int{
	QueueDesign: 6,
	QueueMedia:  3,
	QueueLow:    1,
}

type RecordDesignViewPayload struct {
	ShareCode string `json:"share_code"`
}

type RefreshTrendingPayload struct{}

type ProcessUploadPayload struct {
	UploadID string `json:"upload_id"`
}

type DeleteUploadPayload struct {
	UploadID string `json:"upload_id"`
}

// TaskEnqueuer is satisfied by *asynq.Client.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}
