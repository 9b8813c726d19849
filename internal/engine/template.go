package engine

import (
	"hash/fnv"
	"regexp"
)

var placeholderPattern = regexp.MustCompile(`\{(\w+)\}`)

// StableHash is a 32-bit FNV-1a over the seed string. It is the deliberate
// determinism mechanism behind template selection: the same seed produces the
// same value on every run and platform.
func StableHash(seed string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(seed))
	return h.Sum32()
}

// PickTemplate selects one template by hashing the seed. The seed must
// incorporate the suggestion's stable identity plus today's date string, so a
// feed regenerated within the same calendar day renders identical wording
// while a new day may pick differently.
func PickTemplate(templates []string, seed string) string {
	if len(templates) == 0 {
		return ""
	}
	idx := int(StableHash(seed) % uint32(len(templates)))
	return templates[idx]
}

// ApplyTemplate substitutes {name}-style placeholders from vars. Missing
// variables become the empty string; it never fails.
func ApplyTemplate(template string, vars map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		key := match[1 : len(match)-1]
		return vars[key]
	})
}
