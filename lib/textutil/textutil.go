package textutil

import (
	"regexp"
	"strings"
)

var disallowedChars = regexp.MustCompile(`[^a-zA-Z0-9\-_. ]+`)
var whitespaceRegex = regexp.MustCompile(`\s+`)

// Slugify derives a filesystem-safe name from a human readable title.
// The output never contains whitespace; applying Slugify twice returns
// the same value as applying it once.
func Slugify(title string) string {
	t := disallowedChars.ReplaceAllString(title, "")
	t = strings.TrimSpace(t)
	t = whitespaceRegex.ReplaceAllString(t, "_")
	if t == "" {
		return "untitled"
	}
	return t
}

func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

func MatchName(name string, matchers []string) bool {
	name = NormalizeName(name)
	for _, m := range matchers {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}
