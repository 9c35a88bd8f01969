package agent

import (
	"regexp"
	"strings"

	"github.com/alexupport/alexupport/internal/model"
)

var spaceRun = regexp.MustCompile(`\s+`)

// collapseSpace normalizes a composed prompt body to single spaces so
// multi-line templates read as one paragraph on the wire.
func collapseSpace(s string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}

// decodeVerdict maps a checker response onto a Verdict by YES/NO prefix,
// case-insensitively. Anything else is a negative verdict quoting the raw
// text; malformed output is data, not an error.
func decodeVerdict(raw, affirmative, negative string) model.Verdict {
	text := strings.TrimSpace(raw)
	upper := strings.ToUpper(text)
	switch {
	case strings.HasPrefix(upper, "YES"):
		return model.Verdict{OK: true, Reason: affirmative}
	case strings.HasPrefix(upper, "NO"):
		return model.Verdict{OK: false, Reason: negative}
	default:
		return model.Verdict{OK: false, Reason: "unexpected model response: " + text}
	}
}
