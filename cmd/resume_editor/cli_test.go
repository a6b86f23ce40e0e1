package main

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommands_MissingRequiredFlags(t *testing.T) {
	binaryPath := getBinaryPath(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"update-section without section", []string{"update-section", "--fragment", "<p>x</p>"}, `required flag(s) "section" not set`},
		{"update-section without fragment", []string{"update-section", "--section", "general"}, `required flag(s) "fragment" not set`},
		{"batch without input", []string{"batch"}, `required flag(s) "in" not set`},
		{"import without file", []string{"import"}, `required flag(s) "file" not set`},
		{"export-pdf without source", []string{"export-pdf", "--out", "x.pdf"}, "at least one of the flags in the group [in resume-id] is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := exec.Command(binaryPath, tt.args...).CombinedOutput()
			assert.Error(t, err)
			assert.Contains(t, string(output), tt.want)
		})
	}
}

func TestMigrateCommand_Print(t *testing.T) {
	binaryPath := getBinaryPath(t)

	output, err := exec.Command(binaryPath, "migrate", "--print").CombinedOutput()
	assert.NoError(t, err)
	assert.Contains(t, string(output), "CREATE TABLE IF NOT EXISTS resumes")
}
