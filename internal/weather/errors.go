package weather

import "fmt"

// InvalidAPIKeyError is raised when an upstream rejects our API key. The
// upstream's own message is preserved verbatim.
type InvalidAPIKeyError struct {
	Message string
}

func (e *InvalidAPIKeyError) Error() string {
	if e.Message == "" {
		return "invalid or missing API key"
	}
	return e.Message
}

// APISyntaxError is raised when an upstream rejects the request parameters,
// e.g. out-of-range coordinates.
type APISyntaxError struct {
	Message string
}

func (e *APISyntaxError) Error() string {
	return e.Message
}

// UnexpectedResponseError is raised when an upstream response matches none of
// the shapes we know. It carries the raw payload for diagnosis.
type UnexpectedResponseError struct {
	Source  string
	Payload string
}

func (e *UnexpectedResponseError) Error() string {
	return fmt.Sprintf("unexpected response from %s: %s", e.Source, e.Payload)
}
