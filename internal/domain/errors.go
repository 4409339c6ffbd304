package domain

import "errors"

var (
	// ErrQuestionNotFound indicates a question id is unknown to the catalog or the remote API.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrSessionNotFound is returned when a dashboard session has expired or never existed.
	ErrSessionNotFound = errors.New("session not found")
	// ErrInvalidCredentials is returned when the upstream auth check rejects a login.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmptyDraftList indicates a create submission was attempted with no drafts.
	ErrEmptyDraftList = errors.New("draft list is empty")
	// ErrUnknownField indicates a draft field name outside the editable field set.
	ErrUnknownField = errors.New("unknown draft field")
)
