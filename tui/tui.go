package tui

import (
	"context"
	"fmt"
	"strings"

	"imagequeue/shared/events"
	"imagequeue/shared/models"
	"imagequeue/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	queueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575"))

	userStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5FA7FF"))

	assistantStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F25D94"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F"))

	inputStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#04B575")).
			Padding(0, 1)
)

// stateChanged tells the model to re-render from store state.
type stateChanged struct{}

// sendFinished reports the outcome of a SendMessage call.
type sendFinished struct {
	err error
}

type model struct {
	store      *store.ChatStore
	input      string
	width      int
	height     int
	processing bool
	errText    string
}

// StartTUI runs the terminal chat interface. It subscribes to the event bus
// so store mutations (including background task updates) trigger re-renders.
func StartTUI(chatStore *store.ChatStore, eventBus *events.EventBus) error {
	m := model{store: chatStore}
	program := tea.NewProgram(m, tea.WithAltScreen())

	notify := func(events.Event) {
		program.Send(stateChanged{})
	}
	eventBus.Subscribe(events.ChatChanged, notify)
	eventBus.Subscribe(events.MessageAdded, notify)
	eventBus.Subscribe(events.TaskStatusChanged, notify)
	eventBus.Subscribe(events.QueueStatusChanged, notify)

	_, err := program.Run()
	return err
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.store.Wait()
			return m, tea.Quit
		case "ctrl+n":
			m.store.CreateChat()
			return m, nil
		case "tab":
			m.cycleChat()
			return m, nil
		case "enter":
			return m.submit()
		case "backspace":
			if len(m.input) > 0 {
				runes := []rune(m.input)
				m.input = string(runes[:len(runes)-1])
			}
			return m, nil
		}
		if msg.Type == tea.KeyRunes {
			m.input += string(msg.Runes)
		} else if msg.Type == tea.KeySpace {
			m.input += " "
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case stateChanged:
		return m, nil

	case sendFinished:
		m.processing = false
		if msg.err != nil {
			m.errText = msg.err.Error()
		}
		return m, nil
	}

	return m, nil
}

// submit validates the input and kicks off SendMessage. Only input
// validation lives here; everything else is the store's business.
func (m model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input)
	if text == "" || m.processing {
		return m, nil
	}
	if m.store.APIKey() == "" {
		m.errText = "Please set your OpenAI API key (imagequeue config set api_key ...) to generate images."
		return m, nil
	}

	chat := m.store.CurrentChat()
	if chat == nil {
		chat = m.store.CreateChat()
	}
	chatID := chat.ID

	m.input = ""
	m.errText = ""
	m.processing = true
	chatStore := m.store

	return m, func() tea.Msg {
		return sendFinished{err: chatStore.SendMessage(context.Background(), chatID, text)}
	}
}

func (m model) cycleChat() {
	chats := m.store.Chats()
	if len(chats) < 2 {
		return
	}
	current := m.store.CurrentChat()
	for i, chat := range chats {
		if current != nil && chat.ID == current.ID {
			next := chats[(i+1)%len(chats)]
			m.store.SetCurrentChat(next.ID)
			return
		}
	}
}

func (m model) View() string {
	var sb strings.Builder

	chat := m.store.CurrentChat()
	title := "No chat selected (ctrl+n to create one)"
	if chat != nil {
		title = chat.Title
	}
	sb.WriteString(titleStyle.Render("imagequeue: "+title) + "\n")
	sb.WriteString(queueStyle.Render(renderQueueStatus(m.store.QueueStatus())) + "\n\n")

	if chat != nil {
		for _, message := range chat.Messages {
			sb.WriteString(renderMessage(message))
		}
	}

	if m.processing {
		sb.WriteString(assistantStyle.Render("Assistant:") + " ...\n")
	}
	if m.errText != "" {
		sb.WriteString(errorStyle.Render("Error: "+m.errText) + "\n")
	}

	sb.WriteString("\n" + inputStyle.Render("> "+m.input) + "\n")
	sb.WriteString("enter: send · tab: switch chat · ctrl+n: new chat · ctrl+c: quit\n")
	return sb.String()
}

func renderQueueStatus(status models.QueueStatus) string {
	if !status.Draining {
		return "queue idle"
	}
	return fmt.Sprintf("queue: %d pending, generating...", status.Pending)
}

func renderMessage(message *models.Message) string {
	var sb strings.Builder

	if message.Role == models.RoleUser {
		sb.WriteString(userStyle.Render("You:") + " ")
	} else {
		sb.WriteString(assistantStyle.Render("Assistant:") + " ")
	}
	sb.WriteString(message.Content + "\n")

	for _, task := range message.ImageTasks {
		sb.WriteString("  " + renderTask(task) + "\n")
	}
	sb.WriteString("\n")
	return sb.String()
}

func renderTask(task *models.ImageTask) string {
	label := task.Description
	if label == "" {
		label = task.Prompt
	}

	switch task.Status {
	case models.TaskGenerating:
		return fmt.Sprintf("[generating] %s", label)
	case models.TaskCompleted:
		return fmt.Sprintf("[done] %s: %s", label, task.ImageURL)
	case models.TaskFailed:
		return fmt.Sprintf("[failed] %s: %s", label, task.Error)
	default:
		return fmt.Sprintf("[pending] %s", label)
	}
}
