package registry

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	nonSlugRe     = regexp.MustCompile(`[^a-z0-9-]`)
	multiHyphenRe = regexp.MustCompile(`-+`)

	// idRe matches registry IDs like CAT-MIP-000000025.
	idRe = regexp.MustCompile(`^CAT-MIP-(\d+)$`)
)

// IDPrefix is the registry identifier prefix.
const IDPrefix = "CAT-MIP"

// Slugify converts a canonical term name to its file slug.
// "AI Agent" becomes "ai-agent". An empty name yields "unknown" so a
// malformed record still produces a stable page path.
func Slugify(name string) string {
	if strings.TrimSpace(name) == "" {
		return "unknown"
	}
	slug := strings.ToLower(name)
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = nonSlugRe.ReplaceAllString(slug, "-")
	slug = multiHyphenRe.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// FormatID renders a numeric ID in canonical zero-padded form.
func FormatID(n int) string {
	return fmt.Sprintf("%s-%09d", IDPrefix, n)
}

// ParseID extracts the numeric component of a registry ID.
func ParseID(id string) (int, bool) {
	m := idRe.FindStringSubmatch(strings.TrimSpace(id))
	if m == nil {
		return 0, false
	}
	var n int
	if _, err := fmt.Sscanf(m[1], "%d", &n); err != nil {
		return 0, false
	}
	return n, true
}
