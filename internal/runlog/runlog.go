// Package runlog parses the run-level log written by the test generator at
// the end of a category run.
package runlog

import (
	"fmt"
	"os"
	"regexp"

	"github.com/sikraken/runreport/internal/fields"
)

var (
	commandPattern   = regexp.MustCompile(`Command Used to Generate the Category Test run:\s*(\S+)`)
	noTestcovPattern = regexp.MustCompile(`no_testcov:\s*(\d)`)
)

// RunMetadata describes one category run. All string fields are required.
type RunMetadata struct {
	Command              string `json:"command"`
	Timestamp            string `json:"timestamp"`
	Category             string `json:"category"`
	Mode                 string `json:"mode"`
	Options              string `json:"options"`
	Budget               string `json:"budget"`
	Cores                string `json:"cores"`
	Duration             string `json:"duration"`
	CoverageToolDisabled bool   `json:"coverage_tool_disabled"`
}

// Parse builds RunMetadata from the contents of a run log. path is only used
// in error messages.
func Parse(text, path string) (*RunMetadata, error) {
	meta := &RunMetadata{}
	command, ok := fields.String(text, commandPattern)
	if !ok {
		return nil, &MissingInputError{Kind: "field", Name: "Command Used", Path: path}
	}
	meta.Command = command

	labeled := []struct {
		name string
		dst  *string
	}{
		{"Timestamp", &meta.Timestamp},
		{"Category", &meta.Category},
		{"Mode", &meta.Mode},
		{"Options", &meta.Options},
		{"Budget", &meta.Budget},
		{"Cores", &meta.Cores},
		{"Duration", &meta.Duration},
	}
	for _, f := range labeled {
		v, ok := fields.Field(text, f.name)
		if !ok {
			return nil, &MissingInputError{Kind: "field", Name: f.name, Path: path}
		}
		*f.dst = v
	}

	if flag, ok := fields.String(text, noTestcovPattern); ok {
		meta.CoverageToolDisabled = flag == "1"
	}
	return meta, nil
}

// ParseFile reads and parses the run log at path.
func ParseFile(path string) (*RunMetadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, missingFile(path)
		}
		return nil, fmt.Errorf("reading run log: %w", err)
	}
	return Parse(string(data), path)
}

// RequireFile fails with a MissingInputError when path is not a regular file.
func RequireFile(path string) error {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return missingFile(path)
	}
	return nil
}
