package judge

import (
	"errors"
	"strconv"
	"strings"
)

// DefaultScore is substituted when no score can be extracted from a judge
// response. The substitution is recorded in the score's reasoning so the
// degradation stays visible to callers.
const DefaultScore = 7.0

// ErrNoScore reports that a judge response contained no parseable score line.
var ErrNoScore = errors.New("judge: no parseable score in response")

// parseScore scans response text for a line carrying a recognized score
// marker ("Score: 8", "**Score:** 8.5/10", ...) and returns the value clamped
// to [0, 10]. The fallback-on-failure policy lives in the caller so the parse
// branch stays independently testable.
func parseScore(text string) (float64, error) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.Trim(line, "*_")
		lower := strings.ToLower(line)
		idx := strings.Index(lower, "score:")
		if idx < 0 {
			continue
		}
		rest := strings.TrimSpace(line[idx+len("score:"):])
		rest = strings.TrimLeft(rest, "*_ ")
		if rest == "" {
			continue
		}
		// Accept "8.5/10" and "8.5 / 10" by cutting at the slash.
		if cut := strings.Index(rest, "/"); cut >= 0 {
			rest = strings.TrimSpace(rest[:cut])
		}
		// Take the leading numeric token.
		end := 0
		for end < len(rest) {
			c := rest[end]
			if (c >= '0' && c <= '9') || c == '.' || (end == 0 && c == '-') {
				end++
				continue
			}
			break
		}
		if end == 0 {
			continue
		}
		v, err := strconv.ParseFloat(rest[:end], 64)
		if err != nil {
			continue
		}
		if v < 0 {
			v = 0
		}
		if v > 10 {
			v = 10
		}
		return v, nil
	}
	return 0, ErrNoScore
}

// parseList extracts the bullet or comma list following a labeled line such
// as "Strengths:". Best-effort; advisory fields only.
func parseList(text, label string) []string {
	lines := strings.Split(text, "\n")
	var out []string
	collecting := false
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		bare := strings.Trim(line, "*_ ")
		lower := strings.ToLower(bare)
		if strings.HasPrefix(lower, strings.ToLower(label)+":") {
			collecting = true
			rest := strings.TrimSpace(bare[len(label)+1:])
			if rest != "" {
				for _, item := range strings.Split(rest, ",") {
					if item = strings.TrimSpace(item); item != "" {
						out = append(out, item)
					}
				}
			}
			continue
		}
		if !collecting {
			continue
		}
		if strings.HasPrefix(line, "-") || strings.HasPrefix(line, "*") {
			if item := strings.TrimSpace(strings.TrimLeft(line, "-* ")); item != "" {
				out = append(out, item)
			}
			continue
		}
		// A new labeled line or blank line ends the list.
		collecting = false
	}
	return out
}
