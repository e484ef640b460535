package models

import (
	"time"
)

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// TaskStatus tracks an image task through its lifecycle:
// pending -> generating -> completed | failed.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskGenerating TaskStatus = "generating"
	TaskCompleted  TaskStatus = "completed"
	TaskFailed     TaskStatus = "failed"
)

// Terminal reports whether no further status transition is allowed.
func (s TaskStatus) Terminal() bool {
	return s == TaskCompleted || s == TaskFailed
}

// ImageTask represents one unit of image generation work. Tasks are created
// by the store, attached to exactly one assistant message, and mutated only
// through the store's status update operation.
type ImageTask struct {
	ID          string     `json:"id"`
	Prompt      string     `json:"prompt"`
	Description string     `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
	ImageURL    string     `json:"imageUrl,omitempty"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Clone returns a deep copy of the task.
func (t *ImageTask) Clone() *ImageTask {
	clone := *t
	return &clone
}

// Message represents one turn in a conversation. ImageTasks is only set on
// assistant messages that triggered generation.
type Message struct {
	ID         string       `json:"id"`
	Content    string       `json:"content"`
	Role       Role         `json:"role"`
	Timestamp  time.Time    `json:"timestamp"`
	ImageTasks []*ImageTask `json:"imageTasks,omitempty"`
}

// Clone returns a deep copy of the message and its tasks.
func (m *Message) Clone() *Message {
	clone := *m
	if m.ImageTasks != nil {
		clone.ImageTasks = make([]*ImageTask, len(m.ImageTasks))
		for i, task := range m.ImageTasks {
			clone.ImageTasks[i] = task.Clone()
		}
	}
	return &clone
}

// Chat is a conversation thread.
type Chat struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Messages  []*Message `json:"messages"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Clone returns a deep copy of the chat, its messages and their tasks.
func (c *Chat) Clone() *Chat {
	clone := *c
	if c.Messages != nil {
		clone.Messages = make([]*Message, len(c.Messages))
		for i, message := range c.Messages {
			clone.Messages[i] = message.Clone()
		}
	}
	return &clone
}

// DefaultChatTitle is the placeholder title until the first user message.
const DefaultChatTitle = "New Chat"

// titleLimit is the maximum number of characters kept when deriving a chat
// title from its first user message.
const titleLimit = 50

// DeriveTitle builds a chat title from the first user message, truncated to
// 50 characters with a trailing ellipsis when truncated.
func DeriveTitle(content string) string {
	runes := []rune(content)
	if len(runes) <= titleLimit {
		return content
	}
	return string(runes[:titleLimit]) + "..."
}

// QueueStatus is a snapshot of the task queue for consumers.
type QueueStatus struct {
	Pending    int  `json:"pending"`
	Draining   bool `json:"draining"`
	Generating bool `json:"generating"`
}
