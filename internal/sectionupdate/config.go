package sectionupdate

import (
	"fmt"

	"github.com/jonathan/resume-editor/internal/types"
)

// Config parameterizes the agent for one section kind.
type Config struct {
	Kind           types.SectionKind
	RulesPromptKey string
	WithDiff       bool
}

// ToolName is the name the section is exposed under to orchestrating agent loops.
func (c Config) ToolName() string {
	return fmt.Sprintf("update_%s_section", c.Kind)
}

// Info describes the section for API clients.
func (c Config) Info() types.SectionInfo {
	return types.SectionInfo{Kind: c.Kind, Tool: c.ToolName(), WithDiff: c.WithDiff}
}

var sections = []Config{
	{Kind: types.SectionExperience, RulesPromptKey: "rules-experience", WithDiff: true},
	{Kind: types.SectionEducation, RulesPromptKey: "rules-education", WithDiff: true},
	{Kind: types.SectionContact, RulesPromptKey: "rules-contact", WithDiff: false},
	{Kind: types.SectionProjects, RulesPromptKey: "rules-projects", WithDiff: true},
	{Kind: types.SectionGeneral, RulesPromptKey: "rules-general", WithDiff: false},
}

// Sections returns the configuration of every section kind in display order.
func Sections() []Config {
	out := make([]Config, len(sections))
	copy(out, sections)
	return out
}

// Lookup returns the configuration for kind.
func Lookup(kind types.SectionKind) (Config, bool) {
	for _, c := range sections {
		if c.Kind == kind {
			return c, true
		}
	}
	return Config{}, false
}
