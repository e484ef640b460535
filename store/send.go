package store

import (
	"context"
	"fmt"
	"log"
	"strings"

	"imagequeue/llm"
	"imagequeue/shared/models"
)

// Assistant replies used when no tasks were produced or analysis failed.
const (
	noTasksReply = "I didn't detect any image generation requests in your message. " +
		"Try asking me to 'generate an image of...' or 'create a picture of...'"
	analysisFailedReply = "Sorry, there was an error processing your request. Please try again."
)

// SendMessage runs the full request flow for one user turn: record the user
// message, analyze it into image prompts, record the assistant reply with
// its tasks, and enqueue the tasks for sequential rendering.
//
// Blank text and a missing credential are rejected before any network
// interaction. An analysis failure is recorded as a generic assistant reply
// and the underlying error is both logged and returned, so the caller can
// decide whether to surface it.
func (cs *ChatStore) SendMessage(ctx context.Context, chatID, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}

	cs.mutex.Lock()
	executor := cs.executor
	apiKey := cs.cfg.APIKey
	cs.mutex.Unlock()

	if apiKey == "" {
		return ErrNoAPIKey
	}
	if executor == nil {
		return ErrNoExecutor
	}

	if _, err := cs.AddMessage(chatID, text, models.RoleUser, nil); err != nil {
		return err
	}

	analysis, err := executor.Analyze(ctx, text)
	if err != nil {
		log.Printf("Failed to analyze request: %v", err)
		if _, addErr := cs.AddMessage(chatID, analysisFailedReply, models.RoleAssistant, nil); addErr != nil {
			return addErr
		}
		return err
	}

	if len(analysis.Tasks) == 0 {
		reply := analysis.Analysis
		if strings.TrimSpace(reply) == "" {
			reply = noTasksReply
		}
		_, err := cs.AddMessage(chatID, reply, models.RoleAssistant, nil)
		return err
	}

	tasks := make([]*models.ImageTask, len(analysis.Tasks))
	for i, spec := range analysis.Tasks {
		tasks[i] = cs.NewImageTask(spec.Prompt, spec.Description)
	}

	if _, err := cs.AddMessage(chatID, composeTaskReply(analysis), models.RoleAssistant, tasks); err != nil {
		return err
	}

	cs.Enqueue(tasks)
	return nil
}

// composeTaskReply builds the assistant message announcing the planned
// images.
func composeTaskReply(analysis *llm.Analysis) string {
	var sb strings.Builder
	sb.WriteString(analysis.Analysis)

	plural := ""
	if len(analysis.Tasks) > 1 {
		plural = "s"
	}
	fmt.Fprintf(&sb, "\n\nI'll create %d image%s:", len(analysis.Tasks), plural)
	for i, spec := range analysis.Tasks {
		fmt.Fprintf(&sb, "\n%d. %s", i+1, spec.Description)
	}
	return sb.String()
}
