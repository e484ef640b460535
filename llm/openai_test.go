package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"imagequeue/shared/models"
)

// newTestExecutor starts a stub API server and returns an executor pointed
// at it.
func newTestExecutor(t *testing.T, handler http.Handler) *OpenAIExecutor {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewOpenAIExecutor(Config{
		APIKey:  "sk-test",
		BaseURL: server.URL + "/v1",
	})
}

func completionResponse(content string) string {
	payload := map[string]interface{}{
		"id":     "chatcmpl-1",
		"object": "chat.completion",
		"choices": []map[string]interface{}{
			{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": content},
				"finish_reason": "stop",
			},
		},
	}
	data, _ := json.Marshal(payload)
	return string(data)
}

func TestAnalyze(t *testing.T) {
	var gotAuth string
	var gotRequest map[string]interface{}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotRequest)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, completionResponse(`{"analysis": "One image", "tasks": [{"prompt": "a castle at dusk", "description": "castle"}]}`))
	})

	executor := newTestExecutor(t, handler)
	analysis, err := executor.Analyze(context.Background(), "draw me a castle")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if gotAuth != "Bearer sk-test" {
		t.Errorf("Expected bearer credential, got %q", gotAuth)
	}
	if gotRequest["model"] != "gpt-4" {
		t.Errorf("Expected model gpt-4, got %v", gotRequest["model"])
	}
	if gotRequest["max_tokens"] != float64(1000) {
		t.Errorf("Expected max_tokens 1000, got %v", gotRequest["max_tokens"])
	}

	messages, ok := gotRequest["messages"].([]interface{})
	if !ok || len(messages) != 2 {
		t.Fatalf("Expected system + user messages, got %v", gotRequest["messages"])
	}
	userMsg := messages[1].(map[string]interface{})
	if userMsg["content"] != "draw me a castle" {
		t.Errorf("Expected user text to pass through, got %v", userMsg["content"])
	}

	if analysis.Analysis != "One image" {
		t.Errorf("Unexpected analysis text: %q", analysis.Analysis)
	}
	if len(analysis.Tasks) != 1 || analysis.Tasks[0].Prompt != "a castle at dusk" {
		t.Errorf("Unexpected tasks: %+v", analysis.Tasks)
	}
}

func TestAnalyzeNoTasks(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, completionResponse(`{"analysis": "The user is not requesting image generation", "tasks": []}`))
	})

	executor := newTestExecutor(t, handler)
	analysis, err := executor.Analyze(context.Background(), "how are you?")
	if err != nil {
		t.Fatalf("Expected empty tasks, not an error: %v", err)
	}
	if len(analysis.Tasks) != 0 {
		t.Errorf("Expected 0 tasks, got %d", len(analysis.Tasks))
	}
}

func TestAnalyzeMalformedContent(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, completionResponse("Sure, here you go!"))
	})

	executor := newTestExecutor(t, handler)
	_, err := executor.Analyze(context.Background(), "draw a dog")

	var malformed *MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Fatalf("Expected MalformedResponseError, got %v", err)
	}
}

func TestAnalyzeRemoteError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error"}}`)
	})

	executor := newTestExecutor(t, handler)
	_, err := executor.Analyze(context.Background(), "draw a dog")

	var remote *RemoteCallError
	if !errors.As(err, &remote) {
		t.Fatalf("Expected RemoteCallError, got %v", err)
	}
	if remote.Message != "Incorrect API key provided" {
		t.Errorf("Expected remote message to be preserved, got %q", remote.Message)
	}
	if remote.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", remote.StatusCode)
	}
}

func TestRender(t *testing.T) {
	var gotRequest map[string]interface{}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/images/generations" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotRequest)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"created": 1700000000, "data": [{"url": "https://example.com/castle.png"}]}`)
	})

	executor := newTestExecutor(t, handler)
	url, err := executor.Render(context.Background(), "a castle at dusk", models.QualityHD, models.SizeLandscape)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if url != "https://example.com/castle.png" {
		t.Errorf("Unexpected image URL: %q", url)
	}
	if gotRequest["model"] != "dall-e-3" {
		t.Errorf("Expected model dall-e-3, got %v", gotRequest["model"])
	}
	if gotRequest["n"] != float64(1) {
		t.Errorf("Expected n=1, got %v", gotRequest["n"])
	}
	if gotRequest["quality"] != "hd" {
		t.Errorf("Expected quality hd, got %v", gotRequest["quality"])
	}
	if gotRequest["size"] != "1792x1024" {
		t.Errorf("Expected size 1792x1024, got %v", gotRequest["size"])
	}
	if gotRequest["response_format"] != "url" {
		t.Errorf("Expected response_format url, got %v", gotRequest["response_format"])
	}
}

func TestRenderEmptyResult(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"created": 1700000000, "data": []}`)
	})

	executor := newTestExecutor(t, handler)
	_, err := executor.Render(context.Background(), "a castle", models.QualityStandard, models.SizeSquare)

	var empty *EmptyResultError
	if !errors.As(err, &empty) {
		t.Fatalf("Expected EmptyResultError, got %v", err)
	}
}

func TestRenderRateLimited(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error": {"message": "rate limited", "type": "rate_limit_exceeded"}}`)
	})

	executor := newTestExecutor(t, handler)
	_, err := executor.Render(context.Background(), "a castle", models.QualityStandard, models.SizeSquare)

	var remote *RemoteCallError
	if !errors.As(err, &remote) {
		t.Fatalf("Expected RemoteCallError, got %v", err)
	}
	if err.Error() != "rate limited" {
		t.Errorf("Expected error text 'rate limited', got %q", err.Error())
	}
}

func TestRemoteCallErrorFallbackMessage(t *testing.T) {
	err := &RemoteCallError{StatusCode: 503}
	if err.Error() != "HTTP error! status: 503" {
		t.Errorf("Unexpected fallback message: %q", err.Error())
	}
}
