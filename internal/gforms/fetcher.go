package gforms

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/formrush/formrush/internal/formwire"
)

// Failure taxonomy for form retrieval. Only whole-form failures surface;
// per-item parse problems are absorbed inside formwire.
var (
	ErrNotAFormURL     = errors.New("not a recognizable form URL")
	ErrSignInRequired  = errors.New("form requires sign-in")
	ErrNoFormData      = errors.New("form data not found in page")
	ErrUnsupportedForm = errors.New("no supported questions in form")
)

// FetchError wraps a non-2xx page fetch.
type FetchError struct {
	StatusCode int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("form page fetch failed with status %d", e.StatusCode)
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// The data blob is assigned to a well-known variable inside a script tag.
var (
	blobPattern = regexp.MustCompile(`(?s)FB_PUBLIC_LOAD_DATA_\s*=\s*(.*?);\s*</script>`)

	// The anti-forgery token shows up in one of several shapes depending on
	// the page revision.
	fbzxPatterns = []*regexp.Regexp{
		regexp.MustCompile(`name="fbzx"\s+value="([^"]+)"`),
		regexp.MustCompile(`"fbzx":"([^"]+)"`),
		regexp.MustCompile(`fbzx=(-?\d+)`),
	}
)

// Fetcher retrieves and decodes a form's rendering page.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	logger     zerolog.Logger
}

func NewFetcher(httpClient *http.Client, logger zerolog.Logger) *Fetcher {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Fetcher{
		httpClient: httpClient,
		userAgent:  defaultUserAgent,
		baseURL:    defaultBaseURL,
		logger:     logger.With().Str("component", "form_fetcher").Logger(),
	}
}

// ResolveShortLink follows a shortened link to its final URL. HEAD is
// preferred; some shorteners reject it, so GET is the fallback.
func (f *Fetcher) ResolveShortLink(ctx context.Context, shortURL string) (string, error) {
	for _, method := range []string{http.MethodHead, http.MethodGet} {
		req, err := http.NewRequestWithContext(ctx, method, shortURL, nil)
		if err != nil {
			return "", err
		}
		req.Header.Set("User-Agent", f.userAgent)

		resp, err := f.httpClient.Do(req)
		if err != nil {
			continue
		}
		final := resp.Request.URL.String()
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return final, nil
	}
	return "", fmt.Errorf("resolve short link %s: all methods failed", shortURL)
}

// Fetch resolves, downloads and parses a form from any accepted URL shape.
// The returned form carries the id, published flag and anti-forgery token
// needed for submission.
func (f *Fetcher) Fetch(ctx context.Context, inputURL string) (*formwire.ParsedForm, error) {
	pageURL := strings.TrimSpace(inputURL)

	if IsShortLink(pageURL) {
		resolved, err := f.ResolveShortLink(ctx, pageURL)
		if err != nil {
			return nil, fmt.Errorf("resolve short link: %w", err)
		}
		pageURL = resolved
	}

	if !IsFormsURL(pageURL) {
		return nil, ErrNotAFormURL
	}
	formID, ok := ExtractFormID(pageURL)
	if !ok {
		return nil, ErrNotAFormURL
	}
	// A published id pasted into an editor-shaped URL still belongs to the
	// published space, so the id shape decides alongside the path shape.
	published := strings.Contains(pageURL, "/forms/d/e/") || IsPublishedID(formID)

	html, err := f.fetchPage(ctx, viewURLAt(f.baseURL, formID, published))
	if err != nil {
		return nil, err
	}

	form, err := f.parsePage(html)
	if err != nil {
		return nil, err
	}

	form.FormID = formID
	form.IsPublishedForm = published

	if len(form.Questions) == 0 {
		return nil, ErrUnsupportedForm
	}
	f.logger.Info().
		Str("form_id", formID).
		Int("questions", len(form.Questions)).
		Int("skipped", len(form.SkippedQuestions)).
		Int("pages", len(form.PageHistory)).
		Msg("form parsed")
	return form, nil
}

func (f *Fetcher) fetchPage(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch form page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &FetchError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read form page: %w", err)
	}
	return string(body), nil
}

// parsePage extracts the data blob and token from the page text and decodes
// the blob into a normalized form.
func (f *Fetcher) parsePage(html string) (*formwire.ParsedForm, error) {
	requiresSignIn := detectSignIn(html)

	blobMatch := blobPattern.FindStringSubmatch(html)
	if blobMatch == nil {
		if requiresSignIn {
			return nil, ErrSignInRequired
		}
		return nil, ErrNoFormData
	}

	root, err := formwire.DecodeBlob([]byte(blobMatch[1]))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoFormData, err)
	}
	form, err := formwire.ParseForm(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoFormData, err)
	}

	form.RequiresSignIn = requiresSignIn
	for _, pattern := range fbzxPatterns {
		if m := pattern.FindStringSubmatch(html); m != nil {
			form.Fbzx = m[1]
			break
		}
	}
	return form, nil
}

// detectSignIn looks for account-gate markers in the page text. Pattern
// matching here is best-effort: a false positive only adds a flag to the
// parsed form, it never blocks parsing by itself.
func detectSignIn(html string) bool {
	if strings.Contains(html, "accounts.google.com") || strings.Contains(html, "Sign in") {
		return true
	}
	return !strings.Contains(html, "freebirdFormviewerViewFormContentWrapper") &&
		strings.Contains(html, "login")
}
