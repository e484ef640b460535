package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"imagequeue/llm"
	"imagequeue/shared/events"
	"imagequeue/shared/models"
	"imagequeue/storage"
)

// fakeExecutor is a scripted llm.Executor for store tests. It records call
// order and tracks how many render calls are in flight at once.
type fakeExecutor struct {
	mu           sync.Mutex
	analysis     *llm.Analysis
	analyzeErr   error
	analyzeCalls int
	renderErrs   map[string]error
	renderDelay  time.Duration
	renderBlock  chan struct{}
	rendered     []string
	inFlight     int
	maxInFlight  int
}

func (f *fakeExecutor) Analyze(ctx context.Context, userText string) (*llm.Analysis, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.analyzeCalls++
	if f.analyzeErr != nil {
		return nil, f.analyzeErr
	}
	if f.analysis == nil {
		return &llm.Analysis{Analysis: "nothing to do"}, nil
	}
	return f.analysis, nil
}

func (f *fakeExecutor) Render(ctx context.Context, prompt string, quality models.ImageQuality, size models.ImageSize) (string, error) {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	delay := f.renderDelay
	block := f.renderBlock
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if block != nil {
		<-block
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight--
	f.rendered = append(f.rendered, prompt)
	if err := f.renderErrs[prompt]; err != nil {
		return "", err
	}
	return "https://images.test/" + prompt, nil
}

func (f *fakeExecutor) renderedOrder() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	order := make([]string, len(f.rendered))
	copy(order, f.rendered)
	return order
}

func newTestStore(executor llm.Executor) (*ChatStore, *storage.MemoryStore) {
	st := storage.NewMemoryStore()
	return NewChatStore(st, executor, events.NewEventBus()), st
}

// snapshotTask reads a task's current state through the store's copying
// accessors.
func snapshotTask(t *testing.T, cs *ChatStore, taskID string) *models.ImageTask {
	t.Helper()

	for _, chat := range cs.Chats() {
		for _, message := range chat.Messages {
			for _, task := range message.ImageTasks {
				if task.ID == taskID {
					return task
				}
			}
		}
	}
	t.Fatalf("Task %s not found in any chat", taskID)
	return nil
}
