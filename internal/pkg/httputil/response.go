package httputil

import (
	"encoding/json"
	"net/http"
)

// maxBodyBytes bounds request bodies read by Decode.
const maxBodyBytes = 1 << 20

// ErrorBody is the standard error envelope for all API errors.
type ErrorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// Result is the outcome of a handler: either a success body of type T or an
// ErrorBody, together with the HTTP status to send.
type Result[T any] struct {
	status  int
	body    T
	failure *ErrorBody
}

// Success builds a result carrying body.
func Success[T any](status int, body T) Result[T] {
	return Result[T]{status: status, body: body}
}

// Failure builds a result carrying an error envelope.
func Failure[T any](status int, e ErrorBody) Result[T] {
	return Result[T]{status: status, failure: &e}
}

// Status returns the HTTP status the result renders with.
func (r Result[T]) Status() int { return r.status }

// OK reports whether the result is a success.
func (r Result[T]) OK() bool { return r.failure == nil }

// Render writes the result. The JSON document is followed by exactly one
// newline. If the body cannot be serialized a bare 500 is written instead.
func (r Result[T]) Render(w http.ResponseWriter) {
	var (
		data []byte
		err  error
	)
	if r.failure != nil {
		data, err = json.Marshal(r.failure)
	} else {
		data, err = json.Marshal(r.body)
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(r.status)
	_, _ = w.Write(append(data, '\n'))
}

// JSON writes data with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	Success(status, data).Render(w)
}

// OK writes a 200 response with the given data.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// Created writes a 201 response with the given data.
func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, data)
}

// Error writes an error envelope with the given status.
func Error(w http.ResponseWriter, status int, code, description string) {
	Failure[struct{}](status, ErrorBody{Error: code, ErrorDescription: description}).Render(w)
}

// Decode reads JSON from the request body into dst.
// Returns false and writes a 400 invalid_request response if parsing fails.
func Decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "the request body is not valid JSON")
		return false
	}
	return true
}
