package store

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"imagequeue/config"
	"imagequeue/llm"
	"imagequeue/shared/events"
	"imagequeue/shared/models"
	"imagequeue/storage"

	"github.com/google/uuid"
)

// ChatStore owns the chat collection, the task queue and the user
// preferences. All mutations go through its methods; every mutation is
// followed by a write-through persist and a change event on the bus.
//
// A single mutex guards all state. Updates interleave read-modify-write
// sequences (the title-default check, the queue head removal) that are not
// safe under concurrent mutation.
type ChatStore struct {
	mutex     sync.Mutex
	chats     []*models.Chat
	currentID string
	cfg       *config.Config

	storage  storage.Store
	executor llm.Executor
	eventBus *events.EventBus

	queue      []*models.ImageTask
	draining   bool
	generating bool
	drainWG    sync.WaitGroup
}

// NewChatStore creates a chat store backed by st, loading any previously
// persisted chats and preferences. executor may be nil for consumers that
// never send messages (e.g. the config CLI).
func NewChatStore(st storage.Store, executor llm.Executor, eventBus *events.EventBus) *ChatStore {
	if eventBus == nil {
		eventBus = events.NewEventBus()
	}

	cs := &ChatStore{
		cfg:      config.Load(st),
		storage:  st,
		executor: executor,
		eventBus: eventBus,
	}
	cs.loadChats()
	return cs
}

// Chats returns a deep copy of the chat collection, most recently created
// first. The drain worker keeps mutating task state after this returns, so
// internal pointers must never leave the mutex.
func (cs *ChatStore) Chats() []*models.Chat {
	cs.mutex.Lock()
	defer cs.mutex.Unlock()

	chats := make([]*models.Chat, len(cs.chats))
	for i, chat := range cs.chats {
		chats[i] = chat.Clone()
	}
	return chats
}

// CreateChat inserts a new chat at the front of the collection and makes it
// current.
func (cs *ChatStore) CreateChat() *models.Chat {
	cs.mutex.Lock()

	now := time.Now()
	chat := &models.Chat{
		ID:        uuid.NewString(),
		Title:     models.DefaultChatTitle,
		Messages:  make([]*models.Message, 0),
		CreatedAt: now,
		UpdatedAt: now,
	}

	cs.chats = append([]*models.Chat{chat}, cs.chats...)
	cs.currentID = chat.ID
	cs.persistChats()
	snapshot := chat.Clone()
	cs.mutex.Unlock()

	cs.eventBus.Emit(events.ChatChanged, chat.ID)
	return snapshot
}

// CurrentChat returns a deep copy of the current chat, or nil when the
// collection is empty.
func (cs *ChatStore) CurrentChat() *models.Chat {
	cs.mutex.Lock()
	defer cs.mutex.Unlock()

	chat := cs.findChat(cs.currentID)
	if chat == nil {
		return nil
	}
	return chat.Clone()
}

// SetCurrentChat switches the current chat.
func (cs *ChatStore) SetCurrentChat(chatID string) error {
	cs.mutex.Lock()

	if cs.findChat(chatID) == nil {
		cs.mutex.Unlock()
		return &NotFoundError{Resource: "chat", ID: chatID}
	}
	cs.currentID = chatID
	cs.mutex.Unlock()

	cs.eventBus.Emit(events.ChatChanged, chatID)
	return nil
}

// DeleteChat removes a chat and its messages and tasks. If the deleted chat
// was current, the new front of the remaining collection becomes current.
func (cs *ChatStore) DeleteChat(chatID string) error {
	cs.mutex.Lock()

	index := -1
	for i, chat := range cs.chats {
		if chat.ID == chatID {
			index = i
			break
		}
	}
	if index == -1 {
		cs.mutex.Unlock()
		return &NotFoundError{Resource: "chat", ID: chatID}
	}

	cs.chats = append(cs.chats[:index], cs.chats[index+1:]...)
	if cs.currentID == chatID {
		if len(cs.chats) > 0 {
			cs.currentID = cs.chats[0].ID
		} else {
			cs.currentID = ""
		}
	}
	cs.persistChats()
	cs.mutex.Unlock()

	cs.eventBus.Emit(events.ChatChanged, chatID)
	return nil
}

// SetTitle overwrites a chat's title.
func (cs *ChatStore) SetTitle(chatID, title string) error {
	cs.mutex.Lock()

	chat := cs.findChat(chatID)
	if chat == nil {
		cs.mutex.Unlock()
		return &NotFoundError{Resource: "chat", ID: chatID}
	}
	chat.Title = title
	chat.UpdatedAt = time.Now()
	cs.persistChats()
	cs.mutex.Unlock()

	cs.eventBus.Emit(events.ChatChanged, chatID)
	return nil
}

// AddMessage appends a message to a chat. The first user message in a chat
// whose title is still the default placeholder also sets the chat title.
// The store takes ownership of tasks; the returned message is a deep copy.
func (cs *ChatStore) AddMessage(chatID, content string, role models.Role, tasks []*models.ImageTask) (*models.Message, error) {
	cs.mutex.Lock()

	chat := cs.findChat(chatID)
	if chat == nil {
		cs.mutex.Unlock()
		return nil, &NotFoundError{Resource: "chat", ID: chatID}
	}

	message := &models.Message{
		ID:         uuid.NewString(),
		Content:    content,
		Role:       role,
		Timestamp:  time.Now(),
		ImageTasks: tasks,
	}

	chat.Messages = append(chat.Messages, message)
	chat.UpdatedAt = time.Now()

	if role == models.RoleUser && chat.Title == models.DefaultChatTitle {
		chat.Title = models.DeriveTitle(content)
	}

	cs.persistChats()
	snapshot := message.Clone()
	cs.mutex.Unlock()

	cs.eventBus.Emit(events.MessageAdded, snapshot)
	cs.eventBus.Emit(events.ChatChanged, chatID)
	return snapshot, nil
}

// NewImageTask creates a pending image task. The task is not tracked until
// it is attached to a message via AddMessage.
func (cs *ChatStore) NewImageTask(prompt, description string) *models.ImageTask {
	return &models.ImageTask{
		ID:          uuid.NewString(),
		Prompt:      prompt,
		Description: description,
		Status:      models.TaskPending,
		CreatedAt:   time.Now(),
	}
}

// APIKey returns the configured API credential.
func (cs *ChatStore) APIKey() string {
	cs.mutex.Lock()
	defer cs.mutex.Unlock()
	return cs.cfg.APIKey
}

// SetAPIKey updates and persists the API credential.
func (cs *ChatStore) SetAPIKey(key string) {
	cs.mutex.Lock()
	defer cs.mutex.Unlock()
	cs.cfg.APIKey = key
	cs.persistConfig()
}

// ImageQuality returns the configured image quality.
func (cs *ChatStore) ImageQuality() models.ImageQuality {
	cs.mutex.Lock()
	defer cs.mutex.Unlock()
	return cs.cfg.ImageQuality
}

// SetImageQuality updates and persists the image quality.
func (cs *ChatStore) SetImageQuality(quality models.ImageQuality) error {
	cs.mutex.Lock()
	defer cs.mutex.Unlock()

	if err := cs.cfg.Set("image_quality", string(quality)); err != nil {
		return err
	}
	cs.persistConfig()
	return nil
}

// ImageSize returns the configured image size.
func (cs *ChatStore) ImageSize() models.ImageSize {
	cs.mutex.Lock()
	defer cs.mutex.Unlock()
	return cs.cfg.ImageSize
}

// SetImageSize updates and persists the image size.
func (cs *ChatStore) SetImageSize(size models.ImageSize) error {
	cs.mutex.Lock()
	defer cs.mutex.Unlock()

	if err := cs.cfg.Set("image_size", string(size)); err != nil {
		return err
	}
	cs.persistConfig()
	return nil
}

// findChat returns the chat with the given id, or nil. Callers must hold
// the mutex.
func (cs *ChatStore) findChat(chatID string) *models.Chat {
	for _, chat := range cs.chats {
		if chat.ID == chatID {
			return chat
		}
	}
	return nil
}

// persistChats writes the full chat collection through to storage. Callers
// must hold the mutex. Persistence is best effort: failures are logged, not
// propagated.
func (cs *ChatStore) persistChats() {
	data, err := json.MarshalIndent(cs.chats, "", "  ")
	if err != nil {
		log.Printf("Warning: failed to marshal chats: %v", err)
		return
	}
	if err := cs.storage.Save(storage.KeyChats, string(data)); err != nil {
		log.Printf("Warning: failed to persist chats: %v", err)
	}
}

// persistConfig writes the preferences through to storage. Callers must
// hold the mutex.
func (cs *ChatStore) persistConfig() {
	if err := cs.cfg.Save(cs.storage); err != nil {
		log.Printf("Warning: failed to persist preferences: %v", err)
	}
}

// loadChats restores the chat collection from storage. A parse failure is
// logged once and the store starts from empty state. Timestamps come back as
// RFC 3339 strings and are reconstructed into time.Time by the JSON decoder.
func (cs *ChatStore) loadChats() {
	data, ok, err := cs.storage.Load(storage.KeyChats)
	if err != nil {
		log.Printf("Warning: failed to load chats: %v", err)
		return
	}
	if !ok {
		return
	}

	var chats []*models.Chat
	if err := json.Unmarshal([]byte(data), &chats); err != nil {
		log.Printf("Warning: failed to parse persisted chats: %v", err)
		return
	}

	cs.chats = chats
	if len(cs.chats) > 0 {
		cs.currentID = cs.chats[0].ID
	}
}
