package browser

import (
	"context"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/cposada23/BDDPlaywrightFramework/internal/artifact"
)

// Session is the execution environment of one scenario: an isolated browser
// context with a single page.
type Session struct {
	Name      string
	Context   playwright.BrowserContext
	CreatedAt time.Time
	TracePath string

	page      playwright.Page
	scope     *Scope
	keepTrace bool
}

func (s *Session) Page() playwright.Page {
	return s.page
}

// Screen returns the page as a capture target, nil when no page was created.
func (s *Session) Screen() artifact.Screen {
	if s.page == nil {
		return nil
	}

	return s.page
}

// Release closes the page, the trace recorder and the context. keepTrace
// writes the trace to disk instead of discarding it.
func (s *Session) Release(keepTrace bool) error {
	s.keepTrace = keepTrace
	return s.scope.Release()
}

type sessionKey struct{}

// Bind returns a child of ctx carrying the session for step definitions.
func (s *Session) Bind(ctx context.Context) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok && s != nil
}
