package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	// Falls back to v4 if v7 generation fails
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	RunID   ID
	BatchID ID
)

// String conversions for domain IDs
func (id RunID) String() string   { return ID(id).String() }
func (id BatchID) String() string { return ID(id).String() }

// NewRunID creates a time-ordered compliance run identifier
func NewRunID() RunID { return RunID(NewID()) }

// NewBatchID creates a time-ordered batch identifier
func NewBatchID() BatchID { return BatchID(NewID()) }

// ParseRunID parses a string into RunID
func ParseRunID(s string) (RunID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("run ID cannot be empty")
	}
	if _, err := uuid.Parse(s); err != nil {
		return "", fmt.Errorf("run ID %q is not a valid UUID: %w", s, err)
	}
	return RunID(s), nil
}
