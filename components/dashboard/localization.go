package dashboard

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// TranslationService resolves a label key for a locale. Args are interpolated
// into "{name}" placeholders.
type TranslationService interface {
	Translate(ctx context.Context, key, locale string, args map[string]any) (string, error)
}

//go:embed labels.yaml
var embeddedLabels []byte

// LabelCatalog holds localized dashboard labels keyed by "section.key"
// (for example "title.totals.by_month").
type LabelCatalog struct {
	entries map[string]map[string]string
}

// DefaultLabels returns the catalog embedded in the binary.
func DefaultLabels() *LabelCatalog {
	catalog, err := parseLabels(embeddedLabels)
	if err != nil {
		panic(fmt.Errorf("dashboard: embedded labels: %w", err))
	}
	return catalog
}

// LoadLabels returns the embedded catalog overlaid with entries from path.
// An empty path returns the embedded catalog.
func LoadLabels(path string) (*LabelCatalog, error) {
	catalog := DefaultLabels()
	if strings.TrimSpace(path) == "" {
		return catalog, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dashboard: read labels %s: %w", path, err)
	}
	override, err := parseLabels(data)
	if err != nil {
		return nil, fmt.Errorf("dashboard: parse labels %s: %w", path, err)
	}
	for key, values := range override.entries {
		merged := catalog.entries[key]
		if merged == nil {
			merged = map[string]string{}
		}
		for locale, value := range values {
			merged[locale] = value
		}
		catalog.entries[key] = merged
	}
	return catalog, nil
}

func parseLabels(data []byte) (*LabelCatalog, error) {
	var doc map[string]map[string]map[string]string
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	entries := map[string]map[string]string{}
	for section, keys := range doc {
		for key, values := range keys {
			entries[section+"."+key] = normalizeLocaleMap(values)
		}
	}
	return &LabelCatalog{entries: entries}, nil
}

// Translate implements TranslationService. Unknown keys return an error so
// callers can fall back.
func (c *LabelCatalog) Translate(_ context.Context, key, locale string, args map[string]any) (string, error) {
	if c == nil {
		return "", fmt.Errorf("dashboard: label catalog not configured")
	}
	values, ok := c.entries[key]
	if !ok {
		return "", fmt.Errorf("dashboard: label %s not found", key)
	}
	value := ResolveLocalizedValue(values, locale, "")
	if value == "" {
		return "", fmt.Errorf("dashboard: label %s has no value for %q", key, locale)
	}
	return interpolate(value, args), nil
}

func interpolate(value string, args map[string]any) string {
	if len(args) == 0 {
		return value
	}
	pairs := make([]string, 0, len(args)*2)
	for name, arg := range args {
		pairs = append(pairs, "{"+name+"}", fmt.Sprint(arg))
	}
	return strings.NewReplacer(pairs...).Replace(value)
}

// ResolveLocalizedValue selects the best translation for the provided locale and falls back to the supplied value.
// Keys are matched case-insensitively, and language-region pairs (`es-mx`) automatically fall back to their
// base language (`es`) when present.
func ResolveLocalizedValue(values map[string]string, locale, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	for _, candidate := range localeCandidates(locale) {
		if candidate == "" {
			continue
		}
		for key, value := range values {
			if strings.EqualFold(key, candidate) && value != "" {
				return value
			}
		}
	}
	if value, ok := values["default"]; ok && value != "" {
		return value
	}
	if value, ok := values["en"]; ok && value != "" {
		return value
	}
	return fallback
}

func normalizeLocaleMap(values map[string]string) map[string]string {
	if len(values) == 0 {
		return nil
	}
	normalized := make(map[string]string, len(values))
	for key, value := range values {
		key = normalizeLocale(key)
		if key == "" || value == "" {
			continue
		}
		normalized[key] = value
	}
	return normalized
}

func localeCandidates(locale string) []string {
	locale = normalizeLocale(locale)
	if locale == "" {
		return []string{"default"}
	}
	candidates := []string{locale}
	if idx := strings.Index(locale, "-"); idx > 0 {
		candidates = append(candidates, locale[:idx])
	}
	candidates = append(candidates, "default")
	return candidates
}

func normalizeLocale(locale string) string {
	return strings.TrimSpace(strings.ToLower(locale))
}

func translateOrFallback(ctx context.Context, svc TranslationService, key, locale, fallback string, params map[string]any) string {
	if svc != nil {
		if translated, err := svc.Translate(ctx, key, locale, params); err == nil && translated != "" {
			return translated
		}
	}
	if fallback != "" {
		return fallback
	}
	return key
}
