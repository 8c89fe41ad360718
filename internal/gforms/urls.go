package gforms

import (
	"fmt"
	"regexp"
	"strings"
)

// Form id extraction handles both published (/forms/d/e/<id>) and editor
// (/forms/d/<id>) URL shapes; the published pattern must be tried first.
var formIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/forms/d/e/([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`/forms/d/([a-zA-Z0-9_-]+)`),
}

// ExtractFormID pulls the form id out of a form URL.
func ExtractFormID(rawURL string) (string, bool) {
	clean := strings.TrimSpace(rawURL)
	for _, pattern := range formIDPatterns {
		if m := pattern.FindStringSubmatch(clean); len(m) > 1 && m[1] != "" {
			id := strings.SplitN(m[1], "/", 2)[0]
			return id, true
		}
	}
	return "", false
}

// IsPublishedID reports whether a form id belongs to the published URL
// space. Published ids carry a fixed prefix or run much longer than editor
// ids.
func IsPublishedID(formID string) bool {
	return strings.HasPrefix(formID, "1FAIpQL") || len(formID) > 50
}

// IsShortLink reports whether the URL is a shortened form link that needs
// resolving before parsing.
func IsShortLink(rawURL string) bool {
	return strings.Contains(rawURL, "forms.gle")
}

// IsFormsURL reports whether the URL points at the form platform at all.
func IsFormsURL(rawURL string) bool {
	return strings.Contains(rawURL, "google.com/forms")
}

const defaultBaseURL = "https://docs.google.com"

// ViewURL builds the rendering page URL for a form.
func ViewURL(formID string, published bool) string {
	return viewURLAt(defaultBaseURL, formID, published)
}

func viewURLAt(base, formID string, published bool) string {
	if published {
		return fmt.Sprintf("%s/forms/d/e/%s/viewform", base, formID)
	}
	return fmt.Sprintf("%s/forms/d/%s/viewform", base, formID)
}

// submitURLAt builds the response submission endpoint for a form.
func submitURLAt(base, formID string, published bool) string {
	if published {
		return fmt.Sprintf("%s/forms/d/e/%s/formResponse", base, formID)
	}
	return fmt.Sprintf("%s/forms/d/%s/formResponse", base, formID)
}
