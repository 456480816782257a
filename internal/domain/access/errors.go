package access

import "errors"

var (
	ErrNotFound               = errors.New("request not found")
	ErrDuplicateActiveRequest = errors.New("a pending or approved request already exists")
	ErrNotAuthorized          = errors.New("actor is not the approver of this request")
	ErrStateConflict          = errors.New("illegal request state transition")
	ErrNotTerminal            = errors.New("request must be approved or denied before deletion")
)
