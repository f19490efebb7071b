package artifact

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"
)

const (
	DefaultDir = "screenshots"
	fileExt    = ".png"
	tokenLen   = 8
)

var imageExts = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
}

// IsImage reports whether name has an extension the store manages.
func IsImage(name string) bool {
	_, ok := imageExts[strings.ToLower(filepath.Ext(name))]
	return ok
}

// Screen is the part of a browser page the store needs to render it.
// playwright.Page satisfies it.
type Screen interface {
	IsClosed() bool
	Screenshot(options ...playwright.PageScreenshotOptions) ([]byte, error)
}

type Artifact struct {
	ScenarioName string
	StepName     string
	StepIndex    int
	Path         string
	CreatedAt    time.Time
}

type Option func(*Store)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func WithTokenSource(token func() string) Option {
	return func(s *Store) {
		s.token = token
	}
}

// Store owns a flat directory of screenshots and an in-memory index of the
// ones captured during this process. It is safe for use by concurrent lanes.
type Store struct {
	dir    string
	logger *slog.Logger
	now    func() time.Time
	token  func() string

	mu    sync.Mutex
	index map[string]Artifact
}

func New(dir string, opts ...Option) *Store {
	if dir == "" {
		dir = DefaultDir
	}

	s := &Store{
		dir:    dir,
		logger: slog.Default(),
		now:    time.Now,
		token:  randomToken,
	}

	for _, o := range opts {
		o(s)
	}

	return s
}

func (s *Store) Dir() string {
	return s.dir
}

// ClearAll deletes every image in the directory and empties the index. A
// missing directory counts as empty.
func (s *Store) ClearAll() (int, error) {
	s.mu.Lock()
	s.index = nil
	s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("os.ReadDir: %w", err)
	}

	var errs []error
	var deleted int
	for _, entry := range entries {
		if entry.IsDir() || !IsImage(entry.Name()) {
			continue
		}

		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			errs = append(errs, fmt.Errorf("os.Remove: %w", err))
			continue
		}
		deleted++
	}

	if err := errors.Join(errs...); err != nil {
		return deleted, err
	}

	if deleted > 0 {
		s.logger.Info("screenshots cleared", "dir", s.dir, "count", deleted)
	}

	return deleted, nil
}

// Capture renders screen as a full-page screenshot for one step. It returns an
// empty path without error when the screen can no longer be captured.
func (s *Store) Capture(screen Screen, scenarioName, stepName string, stepIndex int) (string, error) {
	token := s.token()
	name := fmt.Sprintf("%s-%s", Fragment(scenarioName), Fragment(stepName))

	pth, err := s.write(screen, name, token)
	if err != nil || pth == "" {
		return "", err
	}

	s.register(scenarioName+stepName+token, Artifact{
		ScenarioName: scenarioName,
		StepName:     stepName,
		StepIndex:    stepIndex,
		Path:         pth,
		CreatedAt:    s.now(),
	})

	return pth, nil
}

// CaptureOnFailure is the scenario-level fallback used when no step-level
// capture could be attributed.
func (s *Store) CaptureOnFailure(screen Screen, scenarioName string) (string, error) {
	token := s.token()

	pth, err := s.write(screen, Fragment(scenarioName)+"-failure", token)
	if err != nil || pth == "" {
		return "", err
	}

	s.register(scenarioName+token, Artifact{
		ScenarioName: scenarioName,
		StepIndex:    -1,
		Path:         pth,
		CreatedAt:    s.now(),
	})

	return pth, nil
}

func (s *Store) write(screen Screen, name, token string) (string, error) {
	if screen == nil || screen.IsClosed() {
		s.logger.Warn("screenshot skipped, page unavailable", "name", name)
		return "", nil
	}

	data, err := screen.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(true),
		Type:     playwright.ScreenshotTypePng,
	})
	if err != nil {
		if screen.IsClosed() {
			s.logger.Warn("screenshot skipped, page closed during capture", "name", name)
			return "", nil
		}
		return "", fmt.Errorf("page.Screenshot: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("os.MkdirAll: %w", err)
	}

	filename := fmt.Sprintf("%s-%d-%s%s", name, s.now().UnixMilli(), token, fileExt)
	pth := filepath.Join(s.dir, filename)

	if err := os.WriteFile(pth, data, 0o644); err != nil {
		return "", fmt.Errorf("os.WriteFile: %w", err)
	}

	return pth, nil
}

func (s *Store) register(key string, a Artifact) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index == nil {
		s.index = make(map[string]Artifact)
	}
	s.index[key] = a
}

// Artifacts returns the indexed artifacts ordered by creation time, then path.
func (s *Store) Artifacts() []Artifact {
	s.mu.Lock()
	out := make([]Artifact, 0, len(s.index))
	for _, a := range s.index {
		out = append(out, a)
	}
	s.mu.Unlock()

	sort.Slice(
		out, func(i, j int) bool {
			if out[i].CreatedAt.Equal(out[j].CreatedAt) {
				return out[i].Path < out[j].Path
			}
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		},
	)

	return out
}

// Lookup returns the artifacts registered for a scenario and step, compared by
// their normalized names.
func (s *Store) Lookup(scenarioName, stepName string) []Artifact {
	scenario := strings.ToLower(Normalize(scenarioName))
	step := strings.ToLower(Normalize(stepName))

	var out []Artifact
	for _, a := range s.Artifacts() {
		if strings.ToLower(Normalize(a.ScenarioName)) == scenario && strings.ToLower(Normalize(a.StepName)) == step {
			out = append(out, a)
		}
	}

	return out
}

// Close drops the in-memory index. Files on disk are left untouched.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = nil
}

func randomToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:tokenLen]
}
