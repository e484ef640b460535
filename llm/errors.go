package llm

import "fmt"

// RemoteCallError indicates the remote endpoint responded with a non-success
// status. Message carries the remote-provided error text when available.
type RemoteCallError struct {
	StatusCode int
	Message    string
}

func (e *RemoteCallError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
}

// MalformedResponseError indicates the remote call succeeded but its payload
// could not be parsed into the expected structure.
type MalformedResponseError struct {
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return e.Reason
}

// EmptyResultError indicates a render call succeeded but returned no image.
type EmptyResultError struct{}

func (e *EmptyResultError) Error() string {
	return "no image generated"
}
