package sanitize

import "github.com/microcosm-cc/bluemonday"

// Scrubber strips markup from client-supplied text before it is stored or
// echoed back to a room. Scrubbing is idempotent.
type Scrubber struct {
	policy *bluemonday.Policy
}

func New() *Scrubber {
	return &Scrubber{policy: bluemonday.StrictPolicy()}
}

func (that *Scrubber) Scrub(text string) string {
	return that.policy.Sanitize(text)
}
