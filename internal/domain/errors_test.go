package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestTypedErrorsUnwrap(t *testing.T) {
	cause := errors.New("connection reset")

	tests := []struct {
		name string
		err  error
	}{
		{"retrieval", &RetrievalError{Op: "set_question", Err: cause}},
		{"search", &SearchError{Op: "fetch_latest", Err: cause}},
		{"model", &ModelError{Op: "regenerate", Err: cause}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("handler: %w", tt.err)
			if !errors.Is(wrapped, cause) {
				t.Errorf("errors.Is(%v, cause) = false, want true", wrapped)
			}
			if !IsCollaboratorError(wrapped) {
				t.Errorf("IsCollaboratorError(%v) = false, want true", wrapped)
			}
		})
	}
}

func TestPreconditionErrorIsNotCollaboratorError(t *testing.T) {
	err := &PreconditionError{Op: "regenerate", Reason: "no web search result"}
	if IsCollaboratorError(err) {
		t.Error("precondition error should not be classified as collaborator error")
	}
	if got := err.Error(); got != "regenerate: precondition failed: no web search result" {
		t.Errorf("Error() = %q", got)
	}
}

func TestValidChannel(t *testing.T) {
	for _, c := range []string{"academic", "books", "web"} {
		if !ValidChannel(c) {
			t.Errorf("ValidChannel(%q) = false, want true", c)
		}
	}
	for _, c := range []string{"", "news", "Academic"} {
		if ValidChannel(c) {
			t.Errorf("ValidChannel(%q) = true, want false", c)
		}
	}
}
