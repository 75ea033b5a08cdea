package builder

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"sunkissed-backend/internal/domains/design/model"
)

// NormalizeTags trims and lower-cases tags, drops empty ones and duplicates,
// and keeps the first-seen order.
func NormalizeTags(tags []string) ([]string, error) {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))

	for _, raw := range tags {
		tag := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "#")))
		if tag == "" {
			continue
		}
		if utf8.RuneCountInString(tag) > model.MaxTagLen {
			return nil, fmt.Errorf("%w: %q", model.ErrInvalidTag, tag)
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}

	if len(out) > model.MaxTags {
		return nil, fmt.Errorf("%w: %d (max %d)", model.ErrTooManyTags, len(out), model.MaxTags)
	}
	return out, nil
}

// NormalizeName falls back to the default design name.
func NormalizeName(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return model.DefaultDesignName
	}
	if utf8.RuneCountInString(name) > model.MaxDesignNameLen {
		name = string([]rune(name)[:model.MaxDesignNameLen])
	}
	return name
}
