package answergen

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/formrush/formrush/internal/formwire"
)

// Default sampling domains for numeric text answers.
const (
	defaultNumberMin = 1
	defaultNumberMax = 100
	defaultAgeMin    = 18
	defaultAgeMax    = 65
)

// Generate synthesizes the answer values for one question. It always
// returns without error: unanswerable questions yield an empty slice, which
// the payload builder omits. Evaluation order: verbatim templates first,
// then the per-type state machine.
func (r *Response) Generate(q formwire.ParsedQuestion, dist *QuestionDistribution) []string {
	if dist != nil && len(dist.Templates) > 0 {
		return []string{dist.Templates[r.rng.Intn(len(dist.Templates))]}
	}

	switch q.Type {
	case formwire.TypeMultipleChoice, formwire.TypeDropdown:
		return r.pickOne(optionValues(q), dist)
	case formwire.TypeCheckbox:
		return r.checkboxSelections(optionValues(q), q.Validation)
	case formwire.TypeLinearScale:
		return r.pickOne(scaleValues(q), dist)
	case formwire.TypeShortText:
		return []string{r.shortText(q)}
	case formwire.TypeParagraph:
		return []string{r.paragraph(q)}
	case formwire.TypeDate:
		d := time.Now().AddDate(0, 0, -r.rng.Intn(365))
		return []string{d.Format("2006-01-02")}
	case formwire.TypeTime:
		return []string{fmt.Sprintf("%02d:%02d", r.rng.Intn(24), r.rng.Intn(60))}
	default:
		// Grids, file uploads and unknown codes produce no answer.
		return nil
	}
}

func optionValues(q formwire.ParsedQuestion) []string {
	values := make([]string, 0, len(q.Options))
	for _, o := range q.Options {
		values = append(values, o.Value)
	}
	return values
}

func scaleValues(q formwire.ParsedQuestion) []string {
	min, max := 1, 5
	if q.Scale != nil && q.Scale.Min <= q.Scale.Max {
		min, max = q.Scale.Min, q.Scale.Max
	} else if len(q.Options) > 0 {
		return optionValues(q)
	}
	values := make([]string, 0, max-min+1)
	for v := min; v <= max; v++ {
		values = append(values, strconv.Itoa(v))
	}
	return values
}

// pickOne samples a single candidate under the configured distribution.
// Explicit per-value weights take precedence over the question's own option
// order.
func (r *Response) pickOne(candidates []string, dist *QuestionDistribution) []string {
	if len(candidates) == 0 {
		return nil
	}
	distType := DistUniform
	if dist != nil {
		distType = dist.Type
	}
	if distType == DistWeighted && dist != nil && len(dist.Weights) > 0 {
		values := make([]string, len(dist.Weights))
		weights := make([]float64, len(dist.Weights))
		for i, w := range dist.Weights {
			values[i] = w.Value
			weights[i] = w.Weight
		}
		return []string{pickWeighted(r.rng, values, weights)}
	}
	return []string{Pick(r.rng, candidates, distType)}
}

// checkboxSelections draws a distinct subset sized by the question's
// cardinality validation. Default range is [1, min(3, n)].
func (r *Response) checkboxSelections(options []string, v *formwire.QuestionValidation) []string {
	n := len(options)
	if n == 0 {
		return nil
	}

	minSel := 1
	maxSel := n
	if maxSel > 3 {
		maxSel = 3
	}
	exact := 0
	hasExact := false

	if v != nil {
		if val, err := strconv.Atoi(v.Value); err == nil {
			switch v.Type {
			case formwire.ValidationCheckboxMin:
				minSel = clampCount(val, n)
			case formwire.ValidationCheckboxMax:
				maxSel = clampCount(val, n)
			case formwire.ValidationCheckboxExact:
				exact = clampCount(val, n)
				hasExact = true
			}
		}
	}
	if minSel > maxSel {
		minSel = maxSel
	}

	count := exact
	if !hasExact {
		count = minSel + r.rng.Intn(maxSel-minSel+1)
	}

	selected := make([]string, 0, count)
	for _, idx := range r.rng.Perm(n)[:count] {
		selected = append(selected, options[idx])
	}
	return selected
}

func clampCount(v, n int) int {
	if v < 0 {
		return 0
	}
	if v > n {
		return n
	}
	return v
}

// titleRule pairs a set of title keywords with a generator. Rules are
// evaluated in order; the first match wins.
type titleRule struct {
	keywords []string
	generate func(r *Response) string
}

var titleRules = []titleRule{
	{[]string{"email"}, func(r *Response) string { return r.person().Email }},
	{[]string{"first name"}, func(r *Response) string { return r.person().FirstName }},
	{[]string{"last name", "surname"}, func(r *Response) string { return r.person().LastName }},
	{[]string{"name"}, func(r *Response) string { return r.person().FullName }},
	{[]string{"phone", "mobile", "contact"}, func(r *Response) string { return phoneNumber(r.rng, r.loc) }},
	{[]string{"age"}, func(r *Response) string {
		return strconv.Itoa(defaultAgeMin + r.rng.Intn(defaultAgeMax-defaultAgeMin+1))
	}},
	{[]string{"city", "location"}, func(r *Response) string { return pickFrom(r.rng, r.loc.cities) }},
	{[]string{"country"}, func(r *Response) string { return pickFrom(r.rng, r.loc.countries) }},
	{[]string{"address", "street"}, func(r *Response) string {
		return fmt.Sprintf("%d %s", 1+r.rng.Intn(999), pickFrom(r.rng, r.loc.streets))
	}},
	{[]string{"zip", "postal", "pincode"}, func(r *Response) string { return zipCode(r.rng) }},
	{[]string{"state", "province"}, func(r *Response) string { return pickFrom(r.rng, r.loc.states) }},
	{[]string{"company", "organization"}, func(r *Response) string { return pickFrom(r.rng, r.loc.companies) }},
	{[]string{"job", "occupation", "profession", "designation"}, func(r *Response) string { return pickFrom(r.rng, r.loc.jobTitles) }},
	{[]string{"website", "url"}, func(r *Response) string { return randomURL(r.rng) }},
	{[]string{"username"}, func(r *Response) string { return randomUsername(r.rng, r.loc) }},
}

// heuristicText resolves a title against the rule table.
func (r *Response) heuristicText(title string) (string, bool) {
	lower := strings.ToLower(title)
	for _, rule := range titleRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.generate(r), true
			}
		}
	}
	return "", false
}

// shortText implements the short-answer priority chain: format validations,
// numeric validations, text validations over person-derived base text, then
// title heuristics, then generic words.
func (r *Response) shortText(q formwire.ParsedQuestion) string {
	v := q.Validation
	lower := strings.ToLower(q.Title)

	if v != nil {
		switch {
		case v.Type == formwire.ValidationEmail:
			return r.person().Email
		case v.Type == formwire.ValidationURL:
			return randomURL(r.rng)
		case v.Type.IsNumeric():
			defMin, defMax := defaultNumberMin, defaultNumberMax
			if strings.Contains(lower, "age") {
				defMin, defMax = defaultAgeMin, defaultAgeMax
			}
			return strconv.Itoa(r.validatedNumber(v, defMin, defMax))
		case v.Type.IsTextual():
			base := ""
			if strings.Contains(lower, "first name") {
				base = r.person().FirstName
			} else if strings.Contains(lower, "last name") || strings.Contains(lower, "surname") {
				base = r.person().LastName
			} else if strings.Contains(lower, "name") {
				base = r.person().FullName
			}
			return r.validatedText(v, base)
		}
	}

	if text, ok := r.heuristicText(q.Title); ok {
		return text
	}
	return words(r.rng, 2, 5)
}

// paragraph builds a topical multi-sentence answer, then applies any text
// validation on top.
func (r *Response) paragraph(q formwire.ParsedQuestion) string {
	text := paragraphFor(r.rng, q.Title)
	if q.Validation != nil && q.Validation.Type.IsTextual() {
		return r.validatedText(q.Validation, text)
	}
	return text
}

// validatedNumber samples an integer satisfying a numeric rule. It narrows
// the default domain per operator; a degenerate range falls back to a
// bounded retry or a swap rather than failing.
func (r *Response) validatedNumber(v *formwire.QuestionValidation, defMin, defMax int) int {
	min := float64(defMin)
	max := float64(defMax)
	val, okVal := parseNumber(v.Value)
	val2, okVal2 := parseNumber(v.Value2)

	switch v.Type {
	case formwire.ValidationGreaterThan:
		if okVal {
			min = val + 1
		}
	case formwire.ValidationGreaterEqual:
		if okVal {
			min = val
		}
	case formwire.ValidationLessThan:
		if okVal {
			max = val - 1
		}
	case formwire.ValidationLessEqual:
		if okVal {
			max = val
		}
	case formwire.ValidationEqual:
		if okVal {
			return int(val)
		}
	case formwire.ValidationNotEqual:
		if okVal {
			avoid := int(val)
			for attempt := 0; attempt < 10; attempt++ {
				candidate := r.intInRange(min, max)
				if candidate != avoid || max-min <= 0 {
					return candidate
				}
			}
			return r.intInRange(min, max)
		}
	case formwire.ValidationBetween:
		if okVal && okVal2 {
			min = math.Min(val, val2)
			max = math.Max(val, val2)
		}
	case formwire.ValidationNotBetween:
		if okVal && okVal2 {
			rangeMin := math.Min(val, val2)
			rangeMax := math.Max(val, val2)
			if r.rng.Intn(2) == 0 && rangeMin > float64(defMin) {
				max = rangeMin - 1
			} else {
				min = rangeMax + 1
			}
		}
	case formwire.ValidationIsNumber, formwire.ValidationWholeNumber:
		// Domain stays at the defaults; whole_number integrality is
		// guaranteed by integer sampling below.
	}

	if min > max {
		min, max = max, min
	}
	return r.intInRange(min, max)
}

func (r *Response) intInRange(min, max float64) int {
	lo := int(math.Ceil(min))
	hi := int(math.Floor(max))
	if hi <= lo {
		return lo
	}
	return lo + r.rng.Intn(hi-lo+1)
}

func parseNumber(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

// validatedText adjusts base text to satisfy a content or length rule.
// Length limits count characters, not bytes: locale tables carry multibyte
// names, and a byte cut through one would corrupt the value. not_contains
// and regex are best-effort: the unconstrained text is returned as-is.
func (r *Response) validatedText(v *formwire.QuestionValidation, base string) string {
	if base == "" {
		base = words(r.rng, 2, 5)
	}

	switch v.Type {
	case formwire.ValidationLengthMax:
		if n, err := strconv.Atoi(v.Value); err == nil {
			if runes := []rune(base); len(runes) > n {
				return string(runes[:n])
			}
		}
	case formwire.ValidationLengthMin:
		if n, err := strconv.Atoi(v.Value); err == nil {
			for utf8.RuneCountInString(base) < n {
				base += " " + pickFrom(r.rng, loremWords)
			}
		}
	case formwire.ValidationLengthEqual:
		if n, err := strconv.Atoi(v.Value); err == nil {
			return r.exactLengthText(n)
		}
	case formwire.ValidationContains:
		if v.Value != "" {
			return words(r.rng, 1, 3) + " " + v.Value + " " + words(r.rng, 1, 2)
		}
	case formwire.ValidationNotContains, formwire.ValidationRegex:
		return base
	}
	return base
}

// exactLengthText assembles whole words up to the limit, then pads with raw
// characters to hit the exact count.
func (r *Response) exactLengthText(n int) string {
	if n <= 0 {
		return ""
	}
	var b strings.Builder
	for b.Len() < n {
		word := pickFrom(r.rng, loremWords)
		needed := n - b.Len()
		sep := 0
		if b.Len() > 0 {
			sep = 1
		}
		if len(word)+sep <= needed {
			if sep == 1 {
				b.WriteByte(' ')
			}
			b.WriteString(word)
			continue
		}
		b.WriteString(alpha(r.rng, needed))
	}
	return b.String()[:n]
}
