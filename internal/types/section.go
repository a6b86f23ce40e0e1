// Package types provides type definitions for structured data used throughout the resume editor.
package types

import (
	"fmt"
	"strings"
)

// SectionKind identifies a structurally distinct region of a resume document.
type SectionKind string

// Section kinds understood by the section update agent.
const (
	SectionExperience SectionKind = "experience"
	SectionEducation  SectionKind = "education"
	SectionContact    SectionKind = "contact"
	SectionProjects   SectionKind = "projects"
	SectionGeneral    SectionKind = "general"
)

// AllSectionKinds lists every section kind in display order.
func AllSectionKinds() []SectionKind {
	return []SectionKind{
		SectionExperience,
		SectionEducation,
		SectionContact,
		SectionProjects,
		SectionGeneral,
	}
}

// ParseSectionKind converts a user-supplied name into a SectionKind.
func ParseSectionKind(s string) (SectionKind, error) {
	kind := SectionKind(strings.ToLower(strings.TrimSpace(s)))
	for _, k := range AllSectionKinds() {
		if k == kind {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown section kind: %q", s)
}

// SectionInfo describes a section kind for API clients.
type SectionInfo struct {
	Kind     SectionKind `json:"kind"`
	Tool     string      `json:"tool"`
	WithDiff bool        `json:"with_diff"`
}
