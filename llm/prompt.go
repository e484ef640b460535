package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// analysisSystemPrompt instructs the model to answer with the exact JSON
// shape parseAnalysis expects.
const analysisSystemPrompt = `You are an AI assistant that analyzes user requests for image generation. Your job is to:

1. Determine if the user wants to generate images
2. Count how many images they want
3. Create specific prompts for each image
4. Provide a brief analysis of your decision

Respond with a JSON object in this exact format:
{
  "analysis": "Brief explanation of what the user wants and how many images you'll create",
  "tasks": [
    {
      "prompt": "Detailed prompt for DALL-E 3 to generate the first image",
      "description": "Brief description of what this image will show"
    },
    {
      "prompt": "Detailed prompt for DALL-E 3 to generate the second image",
      "description": "Brief description of what this image will show"
    }
  ]
}

If the user doesn't want images, return:
{
  "analysis": "The user is not requesting image generation",
  "tasks": []
}

Make prompts detailed and specific for DALL-E 3. Include style, composition, lighting, and other visual details.`

// parseAnalysis parses the model's reply into an Analysis and validates the
// schema: both the analysis and tasks fields must be present, the analysis
// text must be non-blank, and every task must carry a prompt. Models
// occasionally wrap the JSON in a fenced code block, so fences are stripped
// before parsing. Pointer fields distinguish an absent key from a zero value.
func parseAnalysis(content string) (*Analysis, error) {
	cleaned := stripCodeFence(content)

	var raw struct {
		Analysis *string     `json:"analysis"`
		Tasks    *[]TaskSpec `json:"tasks"`
	}
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, &MalformedResponseError{Reason: "failed to parse ChatGPT response as JSON"}
	}

	if raw.Analysis == nil || strings.TrimSpace(*raw.Analysis) == "" {
		return nil, &MalformedResponseError{Reason: "response is missing the analysis field"}
	}
	if raw.Tasks == nil {
		return nil, &MalformedResponseError{Reason: "response is missing the tasks field"}
	}

	analysis := &Analysis{Analysis: *raw.Analysis, Tasks: *raw.Tasks}
	for i, task := range analysis.Tasks {
		if strings.TrimSpace(task.Prompt) == "" {
			return nil, &MalformedResponseError{
				Reason: fmt.Sprintf("task %d is missing a prompt", i+1),
			}
		}
	}

	return analysis, nil
}

// stripCodeFence removes a surrounding markdown code fence, if present.
func stripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
