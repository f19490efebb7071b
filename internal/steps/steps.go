package steps

import (
	"context"
	"errors"

	"github.com/cucumber/godog"

	"github.com/cposada23/BDDPlaywrightFramework/internal/browser"
	"github.com/cposada23/BDDPlaywrightFramework/internal/execution"
	"github.com/cposada23/BDDPlaywrightFramework/internal/pages"
)

var ErrNoPage = errors.New("no browser page bound to the scenario")

// PageSource finds the page of the running scenario.
type PageSource func(ctx context.Context) (pages.Page, bool)

// SessionPage reads the page from the browser session bound to ctx.
func SessionPage(ctx context.Context) (pages.Page, bool) {
	sess, ok := browser.FromContext(ctx)
	if !ok || sess.Page() == nil {
		return nil, false
	}

	return sess.Page(), true
}

type Option func(*Steps)

func WithPageSource(src PageSource) Option {
	return func(s *Steps) {
		s.source = src
	}
}

// Steps is the generic web step library. The page object is built per step
// from the scenario's own page, so one Steps value can serve every lane.
type Steps struct {
	wrapper *execution.Wrapper
	baseURL string
	source  PageSource
}

func New(wrapper *execution.Wrapper, baseURL string, opts ...Option) *Steps {
	s := &Steps{
		wrapper: wrapper,
		baseURL: baseURL,
		source:  SessionPage,
	}

	for _, o := range opts {
		o(s)
	}

	return s
}

func (s *Steps) Register(sc *godog.ScenarioContext) {
	sc.Step(`^I (?:navigate to|open) "([^"]*)"$`, s.Navigate)
	sc.Step(`^I click (?:on )?"([^"]*)"$`, s.Click)
	sc.Step(`^I type "([^"]*)" into "([^"]*)"$`, s.Type)
	sc.Step(`^I wait for "([^"]*)" to be (visible|hidden|attached|detached)$`, s.WaitFor)
	sc.Step(`^the page title should be "([^"]*)"$`, s.TitleIs)
	sc.Step(`^"([^"]*)" should contain "([^"]*)"$`, s.TextContains)
	sc.Step(`^the URL should contain "([^"]*)"$`, s.URLContains)
}

func (s *Steps) page(ctx context.Context) (*pages.BasePage, error) {
	page, ok := s.source(ctx)
	if !ok {
		return nil, ErrNoPage
	}

	return pages.NewBasePage(page, s.wrapper, s.baseURL), nil
}

func (s *Steps) Navigate(ctx context.Context, target string) error {
	p, err := s.page(ctx)
	if err != nil {
		return err
	}

	return p.Navigate(ctx, target)
}

func (s *Steps) Click(ctx context.Context, selector string) error {
	p, err := s.page(ctx)
	if err != nil {
		return err
	}

	return p.Click(ctx, selector, selector)
}

func (s *Steps) Type(ctx context.Context, value, selector string) error {
	p, err := s.page(ctx)
	if err != nil {
		return err
	}

	return p.Type(ctx, selector, selector, value)
}

func (s *Steps) WaitFor(ctx context.Context, selector, state string) error {
	p, err := s.page(ctx)
	if err != nil {
		return err
	}

	return p.WaitFor(ctx, selector, selector, execution.ElementState(state))
}

func (s *Steps) TitleIs(ctx context.Context, title string) error {
	p, err := s.page(ctx)
	if err != nil {
		return err
	}

	return p.ExpectTitle(ctx, title)
}

func (s *Steps) TextContains(ctx context.Context, selector, text string) error {
	p, err := s.page(ctx)
	if err != nil {
		return err
	}

	return p.ExpectTextContains(ctx, selector, selector, text)
}

func (s *Steps) URLContains(ctx context.Context, fragment string) error {
	p, err := s.page(ctx)
	if err != nil {
		return err
	}

	return p.ExpectURLContains(ctx, fragment)
}
