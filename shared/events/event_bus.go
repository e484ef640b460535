package events

import (
	"log"
	"sync"
	"time"

	"imagequeue/shared/models"
)

// EventType defines the types of events that can be emitted
type EventType string

const (
	// Chat events
	ChatChanged  EventType = "chat:changed"
	MessageAdded EventType = "chat:message_added"

	// Task events
	TaskStatusChanged EventType = "task:status_changed"

	// Queue events
	QueueStatusChanged EventType = "queue:status_changed"
)

// Event represents an event in the system
type Event struct {
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"`
}

// TaskStatusData is the payload of TaskStatusChanged events.
type TaskStatusData struct {
	TaskID string            `json:"taskId"`
	Status models.TaskStatus `json:"status"`
}

// EventHandler is a function that handles events
type EventHandler func(event Event)

// EventBus provides event-driven communication between the store and its
// consumers. The store emits a change notification after each mutation; the
// presentation layer subscribes instead of polling.
type EventBus struct {
	handlers map[EventType][]EventHandler
	mutex    sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[EventType][]EventHandler),
	}
}

// Subscribe adds an event handler for a specific event type
func (eb *EventBus) Subscribe(eventType EventType, handler EventHandler) {
	eb.mutex.Lock()
	defer eb.mutex.Unlock()

	eb.handlers[eventType] = append(eb.handlers[eventType], handler)
}

// Unsubscribe removes all handlers for a specific event type
func (eb *EventBus) Unsubscribe(eventType EventType) {
	eb.mutex.Lock()
	defer eb.mutex.Unlock()

	delete(eb.handlers, eventType)
}

// Emit publishes an event to all registered handlers
func (eb *EventBus) Emit(eventType EventType, data interface{}) {
	eb.mutex.RLock()
	handlers := eb.handlers[eventType]
	eb.mutex.RUnlock()

	event := Event{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	}

	// Execute handlers in goroutines to avoid blocking store mutations
	for _, handler := range handlers {
		go func(h EventHandler) {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("Event handler panic for %s: %v", eventType, r)
				}
			}()
			h(event)
		}(handler)
	}
}

// Helper methods for common event emissions

// EmitTaskStatus emits a task status change event
func (eb *EventBus) EmitTaskStatus(taskID string, status models.TaskStatus) {
	eb.Emit(TaskStatusChanged, TaskStatusData{TaskID: taskID, Status: status})
}

// EmitQueueStatus emits a queue status change event
func (eb *EventBus) EmitQueueStatus(status models.QueueStatus) {
	eb.Emit(QueueStatusChanged, status)
}
