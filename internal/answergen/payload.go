package answergen

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/formrush/formrush/internal/formwire"
)

// Pair is one key/value entry of a form submission. The same key repeats
// for multi-value answers, so the payload is an ordered multimap rather
// than a url.Values map.
type Pair struct {
	Key   string
	Value string
}

// Payload is the ordered submission body for one response.
type Payload []Pair

// Encode renders the payload as application/x-www-form-urlencoded,
// preserving entry order.
func (p Payload) Encode() string {
	var b strings.Builder
	for i, pair := range p {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(pair.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(pair.Value))
	}
	return b.String()
}

// Get returns the first value for a key, for tests and diagnostics.
func (p Payload) Get(key string) (string, bool) {
	for _, pair := range p {
		if pair.Key == key {
			return pair.Value, true
		}
	}
	return "", false
}

// Values returns every value recorded under a key, in order.
func (p Payload) Values(key string) []string {
	var out []string
	for _, pair := range p {
		if pair.Key == key {
			out = append(out, pair.Value)
		}
	}
	return out
}

// BuildPayload generates one response's submission body: one generated
// answer per question in form order, multi-page navigation metadata last.
// Empty answers are omitted entirely, never emitted as empty values.
func BuildPayload(resp *Response, questions []formwire.ParsedQuestion, distributions []QuestionDistribution, pageHistory []int, skipOptional bool) Payload {
	byQuestion := make(map[string]*QuestionDistribution, len(distributions))
	for i := range distributions {
		byQuestion[distributions[i].QuestionID] = &distributions[i]
	}

	var payload Payload
	for _, q := range questions {
		if skipOptional && !q.Required {
			continue
		}
		for _, value := range resp.Generate(q, byQuestion[q.ID]) {
			if value == "" {
				continue
			}
			payload = append(payload, Pair{Key: q.EntryID, Value: value})
		}
	}

	if len(pageHistory) > 1 {
		parts := make([]string, len(pageHistory))
		for i, p := range pageHistory {
			parts[i] = strconv.Itoa(p)
		}
		payload = append(payload, Pair{Key: "pageHistory", Value: strings.Join(parts, ",")})
	}

	return payload
}
