package answergen

import (
	"math/rand"
	"time"
)

// PersonIdentity keeps one fake respondent's name and email mutually
// consistent across the fields of a single response.
type PersonIdentity struct {
	FirstName string
	LastName  string
	FullName  string
	Email     string
}

// Response scopes all mutable generation state to one synthesized form
// response. It must not be shared across responses: one respondent per
// response means a fresh Response per response. Parallel batch generation
// is safe as long as each goroutine owns its own Response.
type Response struct {
	rng      *rand.Rand
	loc      localeData
	identity *PersonIdentity
}

// NewResponse creates the per-response generation context. A nil rng gets a
// time-seeded source.
func NewResponse(locale string, rng *rand.Rand) *Response {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Response{rng: rng, loc: dataFor(locale)}
}

// person returns the response's identity, creating it lazily on the first
// name- or email-like question.
func (r *Response) person() *PersonIdentity {
	if r.identity == nil {
		first := pickFrom(r.rng, r.loc.firstNames)
		last := pickFrom(r.rng, r.loc.lastNames)
		r.identity = &PersonIdentity{
			FirstName: first,
			LastName:  last,
			FullName:  first + " " + last,
			Email:     emailFor(r.rng, r.loc, first, last),
		}
	}
	return r.identity
}
