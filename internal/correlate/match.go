package correlate

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/cposada23/BDDPlaywrightFramework/internal/artifact"
	ifs "github.com/cposada23/BDDPlaywrightFramework/internal/fs"
	"github.com/cposada23/BDDPlaywrightFramework/internal/slice"
)

// Candidate is an image file that may belong to a step.
type Candidate struct {
	Path    string
	ModTime time.Time
}

// Matcher picks the artifact for a scenario step among candidates.
type Matcher func(candidates []Candidate, scenarioName, stepName string) (Candidate, bool)

var _ Matcher = Match

// Match returns the candidate whose file name contains both the scenario and
// step name fragments, compared case-insensitively. The most recently
// modified file wins; equal times fall back to the lexicographically smallest
// path. A name that normalizes to nothing never matches.
func Match(candidates []Candidate, scenarioName, stepName string) (Candidate, bool) {
	scenarioKey := strings.ToLower(artifact.Fragment(scenarioName))
	stepKey := strings.ToLower(artifact.Fragment(stepName))
	if scenarioKey == "" || stepKey == "" {
		return Candidate{}, false
	}

	matches := slice.Filter(
		candidates, func(c Candidate) bool {
			name := strings.ToLower(path.Base(strings.ReplaceAll(c.Path, "\\", "/")))
			return strings.Contains(name, scenarioKey) && strings.Contains(name, stepKey)
		},
	)

	return slice.Best(matches, newer)
}

func newer(a, b Candidate) bool {
	if !a.ModTime.Equal(b.ModTime) {
		return a.ModTime.After(b.ModTime)
	}

	return a.Path < b.Path
}

// Scan lists the image files at the top of fsys. A missing directory yields no
// candidates.
func Scan(fsys ifs.FS) ([]Candidate, error) {
	entries, err := fsys.ReadDir(".")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("fs.ReadDir %s: %w", fsys.RootDir(), err)
	}

	candidates := make([]Candidate, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !artifact.IsImage(entry.Name()) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("entry.Info: %w", err)
		}

		candidates = append(
			candidates, Candidate{
				Path:    fsys.Join(entry.Name()),
				ModTime: info.ModTime(),
			},
		)
	}

	return candidates, nil
}
