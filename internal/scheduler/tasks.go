package scheduler

import (
	"github.com/hibiken/asynq"
)

// TaskDraftSync reconciles open drafts against quotations on the backend.
const TaskDraftSync = "booking.drafts.sync"

// TaskDraftCleanup removes drafts that have not been touched within the
// retention window.
const TaskDraftCleanup = "booking.drafts.cleanup"

func NewDraftSyncTask() *asynq.Task {
	return asynq.NewTask(TaskDraftSync, nil)
}

func NewDraftCleanupTask() *asynq.Task {
	return asynq.NewTask(TaskDraftCleanup, nil)
}
