// pkg/negotiate/negotiate.go

// Package negotiate picks a compression codec from a weighted
// Accept-Encoding style preference header.
package negotiate

import (
	"strconv"
	"strings"

	"github.com/creativeyann17/go-squash/pkg/codec"
)

// Identity is the token for "no transformation applied"
const Identity = "identity"

// Best returns the most acceptable codec from available for the given
// header value. The available slice doubles as the server's priority
// order: ties on quality are broken by whichever codec is listed first.
//
// The boolean is false when the response should be sent uncompressed:
// empty header, every codec rejected, or identity explicitly preferred
// at a quality no codec beats.
func Best(header string, available []codec.ID) (codec.ID, bool) {
	prefs, wildcardQ, hasWildcard := parseHeader(header)
	if len(prefs) == 0 && !hasWildcard {
		return "", false
	}

	identityQ, identityExplicit := prefs[Identity]

	bestIdx := -1
	bestQ := 0.0
	for i, id := range available {
		q, explicit := prefs[strings.ToLower(id.String())]
		if !explicit {
			if !hasWildcard {
				continue
			}
			q = wildcardQ
		}
		// q=0 marks the name as rejected; strict > keeps the
		// first-listed codec on quality ties
		if q > 0 && q > bestQ {
			bestQ = q
			bestIdx = i
		}
	}

	if bestIdx < 0 {
		return "", false
	}
	if identityExplicit && identityQ > 0 && bestQ <= identityQ {
		return "", false
	}
	return available[bestIdx], true
}

// parseHeader splits a comma-separated list of name[;q=weight] tokens.
// Returns explicit per-name weights, the wildcard weight, and whether a
// wildcard token was present.
func parseHeader(header string) (map[string]float64, float64, bool) {
	prefs := make(map[string]float64)
	wildcardQ := 0.0
	hasWildcard := false

	for _, tok := range strings.Split(header, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}

		parts := strings.Split(tok, ";")
		name := strings.ToLower(strings.TrimSpace(parts[0]))
		if name == "" {
			continue
		}

		q := 1.0
		for _, param := range parts[1:] {
			param = strings.TrimSpace(param)
			if len(param) >= 2 && (param[0] == 'q' || param[0] == 'Q') && param[1] == '=' {
				q = parseQuality(param[2:])
				break
			}
		}

		if name == "*" {
			wildcardQ = q
			hasWildcard = true
		} else {
			prefs[name] = q
		}
	}

	return prefs, wildcardQ, hasWildcard
}

// parseQuality parses a q-value: a decimal in [0,1] with at most three
// fractional digits. Malformed values degrade to 1.0 rather than
// poisoning the whole header.
func parseQuality(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 1.0
	}
	if dot := strings.IndexByte(s, '.'); dot >= 0 && len(s)-dot-1 > 3 {
		return 1.0
	}
	q, err := strconv.ParseFloat(s, 64)
	if err != nil || q < 0 || q > 1 {
		return 1.0
	}
	return q
}
