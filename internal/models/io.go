// Package models provides the core data structures for handling webhook requests and responses.
package models

import (
	"encoding/json"
	"net/http"
)

// Request represents an incoming client request. Body holds the bytes exactly as received.
type Request struct {
	Method  string
	Path    string
	Body    []byte
	Headers map[string]string // lowercase keys to match AWS Lambda proxy requests
}

// Response defines the structure for an HTTP response containing a JSON body, headers, and a status code.
type Response struct {
	Body       string
	Headers    map[string]string
	StatusCode int
}

// StatusBody is the payload of successful webhook and health responses.
type StatusBody struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// MessageBody is the payload of informational responses.
type MessageBody struct {
	Message string `json:"message"`
}

// ErrorBody is the payload of failed responses. Details is only set for server errors.
type ErrorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// NewJSONResponse encodes payload as the body of a response with the given status code.
func NewJSONResponse(statusCode int, payload any) Response {
	body, err := json.Marshal(payload)
	if err != nil {
		statusCode = http.StatusInternalServerError
		body = []byte(`{"error":"failed to encode response"}`)
	}
	return Response{
		Body:       string(body),
		Headers:    map[string]string{"Content-Type": "application/json"},
		StatusCode: statusCode,
	}
}
