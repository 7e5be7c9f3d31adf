package matchhandlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// PlayedOnParser turns the operator's match date into a time.
type PlayedOnParser struct {
	w *when.Parser
}

// NewPlayedOnParser creates a parser understanding ISO dates and English
// phrases such as "today" or "last saturday".
func NewPlayedOnParser() *PlayedOnParser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &PlayedOnParser{w: w}
}

// Parse resolves input relative to now. An empty input means now.
func (p *PlayedOnParser) Parse(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return now, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.ParseInLocation(layout, input, now.Location()); err == nil {
			return t, nil
		}
	}

	r, err := p.w.Parse(strings.ToLower(input), now)
	if err != nil {
		return time.Time{}, fmt.Errorf("could not parse match date %q: %w", input, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("could not recognize match date %q", input)
	}
	return r.Time, nil
}
