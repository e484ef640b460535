package store

import (
	"context"
	"log"

	"imagequeue/shared/models"
)

// Enqueue appends tasks to the tail of the queue and starts a drain worker
// if one is not already running. At most one drain worker exists at a time,
// so at most one render call is in flight system-wide.
func (cs *ChatStore) Enqueue(tasks []*models.ImageTask) {
	if len(tasks) == 0 {
		return
	}

	cs.mutex.Lock()
	cs.queue = append(cs.queue, tasks...)
	start := !cs.draining
	if start {
		cs.draining = true
		cs.drainWG.Add(1)
	}
	status := cs.queueStatusLocked()
	cs.mutex.Unlock()

	cs.eventBus.EmitQueueStatus(status)
	if start {
		go cs.drain()
	}
}

// QueueStatus returns a snapshot of the queue.
func (cs *ChatStore) QueueStatus() models.QueueStatus {
	cs.mutex.Lock()
	defer cs.mutex.Unlock()
	return cs.queueStatusLocked()
}

// Wait blocks until the drain worker has gone idle. Intended for tests and
// shutdown; new Enqueue calls after Wait returns start a fresh worker.
func (cs *ChatStore) Wait() {
	cs.drainWG.Wait()
}

func (cs *ChatStore) queueStatusLocked() models.QueueStatus {
	return models.QueueStatus{
		Pending:    len(cs.queue),
		Draining:   cs.draining,
		Generating: cs.generating,
	}
}

// drain processes the queue to empty, strictly one task at a time in FIFO
// order. A render failure is recorded on that task only and does not halt
// the remaining tasks. The mutex is released around the remote call.
func (cs *ChatStore) drain() {
	defer cs.drainWG.Done()

	for {
		cs.mutex.Lock()
		if len(cs.queue) == 0 {
			cs.draining = false
			cs.generating = false
			status := cs.queueStatusLocked()
			cs.mutex.Unlock()

			cs.eventBus.EmitQueueStatus(status)
			return
		}

		task := cs.queue[0]
		cs.queue = cs.queue[1:]
		cs.generating = true
		executor := cs.executor
		quality := cs.cfg.ImageQuality
		size := cs.cfg.ImageSize
		cs.mutex.Unlock()

		cs.UpdateTaskStatus(task.ID, models.TaskGenerating, "", "")

		if executor == nil {
			cs.UpdateTaskStatus(task.ID, models.TaskFailed, "", ErrNoExecutor.Error())
			continue
		}

		imageURL, err := executor.Render(context.Background(), task.Prompt, quality, size)
		if err != nil {
			log.Printf("Failed to generate image for task %s: %v", task.ID, err)
			cs.UpdateTaskStatus(task.ID, models.TaskFailed, "", err.Error())
			continue
		}

		cs.UpdateTaskStatus(task.ID, models.TaskCompleted, imageURL, "")
	}
}

// UpdateTaskStatus transitions a task to a new status, attaching the image
// URL on completion or the error message on failure. The task is located by
// a linear scan over all chats and messages; callers must not assume faster
// lookup. Transitions out of a terminal status are ignored.
func (cs *ChatStore) UpdateTaskStatus(taskID string, status models.TaskStatus, imageURL, errMsg string) {
	cs.mutex.Lock()

	task := cs.findTaskLocked(taskID)
	if task == nil || task.Status.Terminal() {
		cs.mutex.Unlock()
		return
	}

	task.Status = status
	if imageURL != "" {
		task.ImageURL = imageURL
	}
	if errMsg != "" {
		task.Error = errMsg
	}
	cs.persistChats()
	cs.mutex.Unlock()

	cs.eventBus.EmitTaskStatus(taskID, status)
}

// findTaskLocked scans every chat and message for a task id. Callers must
// hold the mutex.
func (cs *ChatStore) findTaskLocked(taskID string) *models.ImageTask {
	for _, chat := range cs.chats {
		for _, message := range chat.Messages {
			for _, task := range message.ImageTasks {
				if task.ID == taskID {
					return task
				}
			}
		}
	}
	return nil
}
