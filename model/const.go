package model

import (
	"fmt"
	"strings"
)

// User role in platform
type Role uint8

const (
	_ Role = iota
	RoleGuest
	RoleUser
	RoleAdmin
)

// Project lifecycle state. The numeric value is the 1-byte tag stored on the ledger.
type ProjectState uint8

const (
	StateActive    ProjectState = iota // Initial state on creation
	StateCompleted                     // Funding effort finished
	StateCancelled                     // Funding effort abandoned
)

var projectStateNames = [...]string{
	StateActive:    "Active",
	StateCompleted: "Completed",
	StateCancelled: "Cancelled",
}

// Valid reports whether s is one of the closed set of lifecycle values.
func (s ProjectState) Valid() bool {
	return int(s) < len(projectStateNames)
}

func (s ProjectState) String() string {
	if !s.Valid() {
		return fmt.Sprintf("ProjectState(%d)", uint8(s))
	}
	return projectStateNames[s]
}

// ParseProjectState accepts the state name in any letter case.
func ParseProjectState(name string) (ProjectState, error) {
	for i, n := range projectStateNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return ProjectState(i), nil
		}
	}
	return 0, fmt.Errorf("unknown project state %q", name)
}

func (s ProjectState) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("unknown project state %d", uint8(s))
	}
	return []byte(s.String()), nil
}

func (s *ProjectState) UnmarshalText(text []byte) error {
	parsed, err := ParseProjectState(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
