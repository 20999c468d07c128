package api

import (
	"errors"
	"fmt"
	"strings"
)

// CodeUnauthenticated is the extensions.code the server sets on auth failures
const CodeUnauthenticated = "UNAUTHENTICATED"

var (
	// ErrUnauthenticated indicates a missing, expired or rejected credential
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrInvalidResponse indicates a response that does not match the expected shape
	ErrInvalidResponse = errors.New("invalid response from api")

	// ErrCircuitOpen indicates the transport stopped sending after repeated failures
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrInvalidJoinRequest indicates a join request without exactly one of id or link
	ErrInvalidJoinRequest = errors.New("join a league with either its id or its invite link")

	// ErrPrivateLeague indicates an attempt to join a private league by id
	ErrPrivateLeague = errors.New("league is private: join it with its invite link")

	// ErrLeagueNameRequired indicates a league created without a name
	ErrLeagueNameRequired = errors.New("league name is required")

	// ErrInvalidInput indicates arguments rejected before any request is sent
	ErrInvalidInput = errors.New("invalid input")
)

// GraphQLErrorItem is one entry of a GraphQL errors array
type GraphQLErrorItem struct {
	Message    string                 `json:"message"`
	Path       []interface{}          `json:"path,omitempty"`
	Extensions map[string]interface{} `json:"extensions,omitempty"`
}

// Code returns extensions.code, empty when absent
func (i GraphQLErrorItem) Code() string {
	code, _ := i.Extensions["code"].(string)
	return code
}

// GraphQLError represents the errors array of a GraphQL response
type GraphQLError struct {
	Operation string
	Errors    []GraphQLErrorItem
}

func (e *GraphQLError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, item := range e.Errors {
		msgs = append(msgs, item.Message)
	}
	return fmt.Sprintf("%s: %s", e.Operation, strings.Join(msgs, "; "))
}

// HasCode reports whether any entry carries code
func (e *GraphQLError) HasCode(code string) bool {
	for _, item := range e.Errors {
		if item.Code() == code {
			return true
		}
	}
	return false
}

// Is matches ErrUnauthenticated when the server flagged the request as unauthenticated
func (e *GraphQLError) Is(target error) bool {
	return target == ErrUnauthenticated && e.HasCode(CodeUnauthenticated)
}

// HTTPError represents a non-2xx response without a GraphQL error body
type HTTPError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Operation, e.StatusCode, e.Body)
}

// Is matches ErrUnauthenticated for 401 responses
func (e *HTTPError) Is(target error) bool {
	return target == ErrUnauthenticated && e.StatusCode == 401
}

// NewGraphQLError creates a new GraphQL error
func NewGraphQLError(operation string, items []GraphQLErrorItem) *GraphQLError {
	return &GraphQLError{Operation: operation, Errors: items}
}

// NewHTTPError creates a new HTTP error, truncating long bodies
func NewHTTPError(operation string, status int, body []byte) *HTTPError {
	const maxBody = 512
	text := strings.TrimSpace(string(body))
	if len(text) > maxBody {
		text = text[:maxBody] + "..."
	}
	return &HTTPError{Operation: operation, StatusCode: status, Body: text}
}
