package domain

import (
	"errors"
	"fmt"
)

var (
	ErrSuperseded            = errors.New("result discarded: question was replaced")
	ErrSessionBusy           = errors.New("another operation is in progress for this question")
	ErrSessionNotFound       = errors.New("session not found")
	ErrSearchUnauthenticated = errors.New("search API key is not configured")
	ErrInvalidChannel        = errors.New("channel must be one of academic, books, web")
	ErrQuestionEmpty         = errors.New("question is required")
	ErrAnswerEmpty           = errors.New("prior answer is required")
)

// PreconditionError reports an operation invoked before its required predecessor state.
type PreconditionError struct {
	Op     string
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: precondition failed: %s", e.Op, e.Reason)
}

type RetrievalError struct {
	Op  string
	Err error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("%s: retrieval failed: %v", e.Op, e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

type SearchError struct {
	Op  string
	Err error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("%s: web search failed: %v", e.Op, e.Err)
}

func (e *SearchError) Unwrap() error { return e.Err }

type ModelError struct {
	Op  string
	Err error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("%s: language model failed: %v", e.Op, e.Err)
}

func (e *ModelError) Unwrap() error { return e.Err }

// ParseError marks an adjudication response that did not follow the requested
// format. It is recovered locally and never returned to callers.
type ParseError struct {
	Raw    string
	Reason string
}

func (e *ParseError) Error() string {
	return "parse adjudication response: " + e.Reason
}

// IsCollaboratorError reports whether err came from an external collaborator
// (retrieval, search or model) rather than from the caller.
func IsCollaboratorError(err error) bool {
	var re *RetrievalError
	var se *SearchError
	var me *ModelError
	return errors.As(err, &re) || errors.As(err, &se) || errors.As(err, &me)
}
