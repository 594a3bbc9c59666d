package visreg

import "strings"

// PathSlug converts a URL path into a filesystem-safe directory name.
// Leading and trailing slashes are stripped and interior slashes become
// underscores, so "/about/team/" yields "about_team". The root path
// yields "home".
//
// The derivation is deterministic, so slugs are unique as long as the
// input path set is deduplicated.
func PathSlug(path string) string {
	slug := strings.ReplaceAll(strings.Trim(path, "/"), "/", "_")
	if slug == "" {
		return "home"
	}
	return slug
}
