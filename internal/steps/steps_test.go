package steps

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cposada23/BDDPlaywrightFramework/internal/execution"
	"github.com/cposada23/BDDPlaywrightFramework/internal/failure"
	"github.com/cposada23/BDDPlaywrightFramework/internal/pages"
)

type stubResponse struct {
	playwright.Response
}

func (stubResponse) Status() int { return 200 }

type pwLocator = playwright.Locator

type stubLocator struct {
	pwLocator
	text   string
	clicks int
	filled string
}

var _ playwright.Locator = (*stubLocator)(nil)

func (l *stubLocator) WaitFor(...playwright.LocatorWaitForOptions) error { return nil }

func (l *stubLocator) Click(...playwright.LocatorClickOptions) error {
	l.clicks++
	return nil
}

func (l *stubLocator) Fill(value string, _ ...playwright.LocatorFillOptions) error {
	l.filled = value
	return nil
}

func (l *stubLocator) TextContent(...playwright.LocatorTextContentOptions) (string, error) {
	return l.text, nil
}

type stubPage struct {
	visited  []string
	locators map[string]*stubLocator
}

func (p *stubPage) Goto(u string, _ ...playwright.PageGotoOptions) (playwright.Response, error) {
	p.visited = append(p.visited, u)
	return stubResponse{}, nil
}

func (p *stubPage) Locator(selector string, _ ...playwright.PageLocatorOptions) playwright.Locator {
	if l, ok := p.locators[selector]; ok {
		return l
	}
	return &stubLocator{}
}

func (p *stubPage) Title() (string, error) { return "Shop", nil }

func (p *stubPage) URL() string { return "https://shop.example.com/cart" }

func newSteps(page pages.Page) *Steps {
	w := execution.New(
		execution.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		execution.WithTimeout(time.Second),
	)

	return New(
		w, "https://shop.example.com", WithPageSource(func(context.Context) (pages.Page, bool) {
			return page, page != nil
		}),
	)
}

func TestSteps_DrivePage(t *testing.T) {
	t.Parallel()

	search := &stubLocator{}
	button := &stubLocator{}
	results := &stubLocator{text: "3 results for shoes"}

	page := &stubPage{locators: map[string]*stubLocator{
		"#search":  search,
		"#go":      button,
		"#results": results,
	}}
	s := newSteps(page)
	ctx := context.Background()

	require.NoError(t, s.Navigate(ctx, "/"))
	require.NoError(t, s.Type(ctx, "shoes", "#search"))
	require.NoError(t, s.Click(ctx, "#go"))
	require.NoError(t, s.WaitFor(ctx, "#results", "visible"))
	require.NoError(t, s.TextContains(ctx, "#results", "shoes"))
	require.NoError(t, s.TitleIs(ctx, "Shop"))
	require.NoError(t, s.URLContains(ctx, "/cart"))

	assert.Equal(t, []string{"https://shop.example.com/"}, page.visited)
	assert.Equal(t, "shoes", search.filled)
	assert.Equal(t, 1, button.clicks)
}

func TestSteps_UnknownSelector(t *testing.T) {
	t.Parallel()

	s := newSteps(&stubPage{})
	require.NoError(t, s.Click(context.Background(), "#later"))
	require.NoError(t, s.WaitFor(context.Background(), "#later", "attached"))
}

func TestSteps_AssertionFailure(t *testing.T) {
	t.Parallel()

	err := newSteps(&stubPage{}).TitleIs(context.Background(), "Checkout")
	require.Error(t, err)
	assert.Equal(t, failure.KindAssertion, failure.KindOf(err))
}

func TestSteps_NoPage(t *testing.T) {
	t.Parallel()

	s := newSteps(nil)
	assert.ErrorIs(t, s.Navigate(context.Background(), "/"), ErrNoPage)
	assert.ErrorIs(t, s.Click(context.Background(), "#go"), ErrNoPage)

	_, ok := SessionPage(context.Background())
	assert.False(t, ok)
}
