package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Envelope is the uniform response wrapper the backend is expected to
// return: {success, data, message}. All three fields are optional on the
// wire; Success defaults to the presence of data when omitted.
type Envelope[T any] struct {
	Success *bool   `json:"success,omitempty"`
	Data    *T      `json:"data,omitempty"`
	Message *string `json:"message,omitempty"`
}

// Ok reports whether the envelope represents an application-level success.
func (e Envelope[T]) Ok() bool {
	if e.Success != nil {
		return *e.Success
	}
	return e.Data != nil
}

// Msg returns the envelope message, or empty when absent.
func (e Envelope[T]) Msg() string {
	if e.Message != nil {
		return *e.Message
	}
	return ""
}

// PageLinks mirrors the links block of the pagination envelope.
type PageLinks struct {
	First *string `json:"first,omitempty"`
	Last  *string `json:"last,omitempty"`
	Prev  *string `json:"prev,omitempty"`
	Next  *string `json:"next,omitempty"`
}

// PageMeta mirrors the meta block of the pagination envelope.
type PageMeta struct {
	CurrentPage int     `json:"current_page"`
	LastPage    int     `json:"last_page"`
	Total       int     `json:"total"`
	Path        *string `json:"path,omitempty"`
}

// ListEnvelope decodes both list response shapes the backend emits:
// {success, data, message} and {message, data, links, meta}. The fields of
// whichever shape arrived are populated; the rest stay nil.
type ListEnvelope[T any] struct {
	Success *bool      `json:"success,omitempty"`
	Message *string    `json:"message,omitempty"`
	Data    []T        `json:"data,omitempty"`
	Links   *PageLinks `json:"links,omitempty"`
	Meta    *PageMeta  `json:"meta,omitempty"`
}

// Ok reports application-level success. The pagination shape carries no
// success flag; its arrival is itself the success signal.
func (e ListEnvelope[T]) Ok() bool {
	if e.Success != nil {
		return *e.Success
	}
	return true
}

// Msg returns the envelope message, or empty when absent.
func (e ListEnvelope[T]) Msg() string {
	if e.Message != nil {
		return *e.Message
	}
	return ""
}

// errorBody is the failure shape returned with non-2xx statuses:
// a message plus optional per-field validation errors.
type errorBody struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

// maxErrorBody bounds how much of a failure response is read for parsing.
const maxErrorBody = 1 << 20

// DecodeEnvelope reads a completed exchange into an Envelope. A non-2xx
// status yields a StatusError carrying whatever message the body held; a
// 2xx body that cannot be parsed yields a wrapped decode error.
func DecodeEnvelope[T any](resp *http.Response) (Envelope[T], error) {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Envelope[T]{}, statusError(resp)
	}

	var env Envelope[T]
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		// Some endpoints answer 2xx with an empty body; that is not a
		// malformed envelope.
		if errors.Is(err, io.EOF) {
			return Envelope[T]{}, nil
		}
		return Envelope[T]{}, fmt.Errorf("decode response: %w", err)
	}
	return env, nil
}

// DecodeList reads a completed exchange into a ListEnvelope, accepting
// either list response shape.
func DecodeList[T any](resp *http.Response) (ListEnvelope[T], error) {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ListEnvelope[T]{}, statusError(resp)
	}

	var env ListEnvelope[T]
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return ListEnvelope[T]{}, fmt.Errorf("decode response: %w", err)
	}
	return env, nil
}

func statusError(resp *http.Response) *StatusError {
	serr := &StatusError{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(body) == 0 {
		return serr
	}

	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return serr
	}
	serr.Message = parsed.Message
	serr.Fields = parsed.Errors
	return serr
}
