package pages

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/playwright-community/playwright-go"

	"github.com/cposada23/BDDPlaywrightFramework/internal/execution"
	"github.com/cposada23/BDDPlaywrightFramework/internal/failure"
)

// Page is the part of playwright.Page the page objects use.
type Page interface {
	Goto(url string, options ...playwright.PageGotoOptions) (playwright.Response, error)
	Locator(selector string, options ...playwright.PageLocatorOptions) playwright.Locator
	Title() (string, error)
	URL() string
}

// BasePage is embedded by concrete page objects. Every interaction goes
// through the execution wrapper so failures come back classified.
type BasePage struct {
	page    Page
	wrapper *execution.Wrapper
	baseURL string
}

func NewBasePage(page Page, wrapper *execution.Wrapper, baseURL string) *BasePage {
	return &BasePage{
		page:    page,
		wrapper: wrapper,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Resolve turns a path into an absolute URL against the base URL. Absolute
// URLs are returned unchanged.
func (p *BasePage) Resolve(target string) string {
	if u, err := url.Parse(target); err == nil && u.IsAbs() {
		return target
	}

	if p.baseURL == "" {
		return target
	}

	return p.baseURL + "/" + strings.TrimLeft(target, "/")
}

// Navigate opens target and waits for the load event.
func (p *BasePage) Navigate(ctx context.Context, target string) error {
	dest := p.Resolve(target)

	return p.wrapper.Run(
		ctx, fmt.Sprintf("Navigate to %s", dest), func(ctx context.Context) error {
			resp, err := p.page.Goto(dest, playwright.PageGotoOptions{
				WaitUntil: playwright.WaitUntilStateLoad,
				Timeout:   playwright.Float(float64(p.wrapper.Timeout().Milliseconds())),
			})
			if err != nil {
				return err
			}

			if resp != nil && resp.Status() >= 400 {
				return fmt.Errorf("page.Goto: Navigation to %s failed with status %d", dest, resp.Status())
			}

			return nil
		}, "url: "+dest,
	)
}

func (p *BasePage) Click(ctx context.Context, selector, label string) error {
	return p.wrapper.ClickWithContext(ctx, p.page.Locator(selector), label, "selector: "+selector)
}

func (p *BasePage) Type(ctx context.Context, selector, label, value string) error {
	return p.wrapper.TypeWithContext(ctx, p.page.Locator(selector), label, value, "selector: "+selector)
}

func (p *BasePage) WaitFor(ctx context.Context, selector, label string, state execution.ElementState) error {
	return p.wrapper.WaitForElementWithContext(ctx, p.page.Locator(selector), label, state, "selector: "+selector)
}

// Text returns the text content of the element once it is visible.
func (p *BasePage) Text(ctx context.Context, selector, label string) (string, error) {
	return execution.Do(
		ctx, p.wrapper, fmt.Sprintf("Read text of %s", label), func(context.Context) (string, error) {
			return p.visibleText(selector)
		}, "selector: "+selector,
	)
}

func (p *BasePage) visibleText(selector string) (string, error) {
	loc := p.page.Locator(selector)
	if err := loc.WaitFor(playwright.LocatorWaitForOptions{State: playwright.WaitForSelectorStateVisible}); err != nil {
		return "", err
	}

	return loc.TextContent()
}

func (p *BasePage) ExpectTitle(ctx context.Context, want string) error {
	return p.wrapper.Run(
		ctx, fmt.Sprintf("Check page title is %q", want), func(ctx context.Context) error {
			got, err := p.page.Title()
			if err != nil {
				return err
			}

			if got != want {
				return failure.Assertion(fmt.Sprintf("expected page title %q, got %q", want, got))
			}

			return nil
		},
	)
}

func (p *BasePage) ExpectTextContains(ctx context.Context, selector, label, want string) error {
	return p.wrapper.Run(
		ctx, fmt.Sprintf("Check %s contains %q", label, want), func(context.Context) error {
			got, err := p.visibleText(selector)
			if err != nil {
				return err
			}

			if !strings.Contains(got, want) {
				return failure.Assertion(fmt.Sprintf("expected %s to contain %q, got %q", label, want, got))
			}

			return nil
		}, "selector: "+selector,
	)
}

func (p *BasePage) ExpectURLContains(ctx context.Context, fragment string) error {
	return p.wrapper.Run(
		ctx, fmt.Sprintf("Check URL contains %q", fragment), func(context.Context) error {
			if got := p.page.URL(); !strings.Contains(got, fragment) {
				return failure.Assertion(fmt.Sprintf("expected URL to contain %q, got %q", fragment, got))
			}

			return nil
		},
	)
}
