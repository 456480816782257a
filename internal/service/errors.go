package service

import (
	"errors"
	"strings"
)

// ErrCrossOwner is returned when an operator touches an entity owned by
// another user.
var ErrCrossOwner = errors.New("entity is owned by another user")

type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

type AuditEntry struct {
	UserKey      string
	UserRole     string
	Action       string
	ResourceType string
	ResourceKey  string
	RequestID    string
	Changes      string
}
