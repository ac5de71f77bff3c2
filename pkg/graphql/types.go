package graphql

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Config defines GraphQL client settings
type Config struct {
	Endpoint   string
	Token      string
	HTTPClient *http.Client
	UserAgent  string
}

// Client posts GraphQL operations to a single endpoint
type Client struct {
	endpoint   string
	token      string
	userAgent  string
	httpClient *http.Client
}

// Request is one GraphQL operation
type Request struct {
	Query         string `json:"query"`
	OperationName string `json:"operationName,omitempty"`
	Variables     any    `json:"variables,omitempty"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []Error         `json:"errors"`
}

// Error is one entry of a GraphQL "errors" array
type Error struct {
	Message    string     `json:"message"`
	Path       []any      `json:"path,omitempty"`
	Extensions Extensions `json:"extensions"`
}

// Extensions carries the server's error classification
type Extensions struct {
	Code string `json:"code"`
}

// ResponseError is returned when the server answers with GraphQL errors
type ResponseError struct {
	Errors []Error
}

func (e *ResponseError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, er := range e.Errors {
		if er.Extensions.Code != "" {
			msgs = append(msgs, fmt.Sprintf("%s (%s)", er.Message, er.Extensions.Code))
			continue
		}
		msgs = append(msgs, er.Message)
	}
	return "graphql: " + strings.Join(msgs, "; ")
}

// HTTPError is returned for non-2xx responses
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("graphql: API error (%d): %s", e.StatusCode, e.Body)
}
