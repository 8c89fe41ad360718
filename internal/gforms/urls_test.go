package gforms

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFormID(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		wantID string
		wantOK bool
	}{
		{
			name:   "published url",
			url:    "https://docs.google.com/forms/d/e/1FAIpQLSdAbCdEfGh/viewform",
			wantID: "1FAIpQLSdAbCdEfGh",
			wantOK: true,
		},
		{
			name:   "editor url",
			url:    "https://docs.google.com/forms/d/1aBcDeFg123/edit",
			wantID: "1aBcDeFg123",
			wantOK: true,
		},
		{
			name:   "published url with query",
			url:    "https://docs.google.com/forms/d/e/1FAIpQLXyz/viewform?usp=sf_link",
			wantID: "1FAIpQLXyz",
			wantOK: true,
		},
		{
			name:   "surrounding whitespace",
			url:    "  https://docs.google.com/forms/d/e/1FAIpQLAbc/viewform  ",
			wantID: "1FAIpQLAbc",
			wantOK: true,
		},
		{
			name:   "not a form url",
			url:    "https://example.com/forms/nothing",
			wantOK: false,
		},
		{
			name:   "empty",
			url:    "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := ExtractFormID(tt.url)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantID, id)
			}
		})
	}
}

func TestIsPublishedID(t *testing.T) {
	assert.True(t, IsPublishedID("1FAIpQLSdAbCdEfGh"))
	assert.True(t, IsPublishedID("x1234567890123456789012345678901234567890123456789012345"))
	assert.False(t, IsPublishedID("1aBcDeFg123"))
}

func TestURLClassifiers(t *testing.T) {
	assert.True(t, IsShortLink("https://forms.gle/abc123"))
	assert.False(t, IsShortLink("https://docs.google.com/forms/d/e/1FAIpQLx/viewform"))

	assert.True(t, IsFormsURL("https://docs.google.com/forms/d/e/1FAIpQLx/viewform"))
	assert.False(t, IsFormsURL("https://example.com/survey"))
}

func TestViewAndSubmitURLs(t *testing.T) {
	assert.Equal(t,
		"https://docs.google.com/forms/d/e/1FAIpQLx/viewform",
		ViewURL("1FAIpQLx", true))
	assert.Equal(t,
		"https://docs.google.com/forms/d/abc/viewform",
		ViewURL("abc", false))
	assert.Equal(t,
		"https://docs.google.com/forms/d/e/1FAIpQLx/formResponse",
		submitURLAt(defaultBaseURL, "1FAIpQLx", true))
	assert.Equal(t,
		"https://docs.google.com/forms/d/abc/formResponse",
		submitURLAt(defaultBaseURL, "abc", false))
}
