// Package manifest reads the list of benchmark programs that took part in a
// run.
package manifest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

// Older producers appended the data model flag to each line, e.g. " -32".
var legacySuffix = regexp.MustCompile(`\s+-\d+$`)

// Identity names one benchmark program.
type Identity struct {
	SourcePath string `json:"source_path"`
	Name       string `json:"name"`
	BaseName   string `json:"base_name"`
}

// Normalize derives an Identity from one manifest line.
func Normalize(line string) Identity {
	p := strings.TrimSpace(line)
	p = legacySuffix.ReplaceAllString(p, "")
	if p == "" {
		return Identity{}
	}
	// Manifest paths are written by a POSIX host regardless of where the
	// report is generated.
	name := path.Base(filepath.ToSlash(p))
	return Identity{
		SourcePath: p,
		Name:       name,
		BaseName:   strings.TrimSuffix(name, path.Ext(name)),
	}
}

// ArtifactDir is the directory holding this benchmark's artifacts inside
// runDir. It is empty for blank manifest entries.
func (id Identity) ArtifactDir(runDir string) string {
	if id.BaseName == "" {
		return ""
	}
	return filepath.Join(runDir, id.BaseName)
}

// Read parses a manifest, one identity per line, preserving order.
func Read(r io.Reader) ([]Identity, error) {
	var ids []Identity
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		ids = append(ids, Normalize(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scanning manifest: %w", err)
	}
	return ids, nil
}

// ReadFile reads the manifest at path.
func ReadFile(path string) ([]Identity, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening manifest: %w", err)
	}
	defer f.Close()
	return Read(f)
}
