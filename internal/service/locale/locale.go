// Package locale holds the UI locale catalog. Catalogs are constructed
// once at startup and passed by handle; there is no ambient global cache.
package locale

import (
	"embed"
	"encoding/json"
	"path"
	"sort"
	"strings"
	"sync"
)

//go:embed locales/*.json
var localeFS embed.FS

var nativeNames = map[string]string{
	"en_us": "English (US)",
	"id":    "Bahasa Indonesia",
	"en_gb": "English (UK)",
	"ja":    "日本語 (Japanese)",
	"ko":    "한국어 (Korean)",
	"zh":    "中文（简体）",
	"pt":    "Português",
	"es":    "Español",
	"ar":    "العربية",
}

// Detail is the listing view of one locale.
type Detail struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// localeFile tolerates both flat maps and {"keys": {...}} wrappers.
type localeFile struct {
	Keys map[string]string `json:"keys"`
}

type Catalog struct {
	mu    sync.RWMutex
	cache map[string]map[string]string
	codes []string
}

// NewCatalog scans the embedded locale files once.
func NewCatalog() *Catalog {
	c := &Catalog{cache: make(map[string]map[string]string)}

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		c.codes = []string{"en_us"}
		return c
	}
	for _, e := range entries {
		name := strings.ToLower(e.Name())
		if strings.HasSuffix(name, ".json") {
			c.codes = append(c.codes, strings.TrimSuffix(name, ".json"))
		}
	}
	if len(c.codes) == 0 {
		c.codes = []string{"en_us"}
	}
	return c
}

// List returns locale codes: en_us and id pinned first, the rest sorted
// by native name.
func (c *Catalog) List() []string {
	head := make([]string, 0, 2)
	tail := make([]string, 0, len(c.codes))
	for _, pinned := range []string{"en_us", "id"} {
		for _, code := range c.codes {
			if code == pinned {
				head = append(head, code)
			}
		}
	}
	for _, code := range c.codes {
		if code != "en_us" && code != "id" {
			tail = append(tail, code)
		}
	}
	sort.Slice(tail, func(i, j int) bool {
		return strings.ToLower(c.NativeName(tail[i])) < strings.ToLower(c.NativeName(tail[j]))
	})
	return append(head, tail...)
}

// ListDetail returns codes paired with native names.
func (c *Catalog) ListDetail() []Detail {
	codes := c.List()
	details := make([]Detail, 0, len(codes))
	for _, code := range codes {
		details = append(details, Detail{Code: code, Name: c.NativeName(code)})
	}
	return details
}

// NativeName resolves a code to its display name, falling back to the code.
func (c *Catalog) NativeName(code string) string {
	if name, ok := nativeNames[strings.ToLower(code)]; ok {
		return name
	}
	return code
}

// Load returns the merged string table for a locale: en_us and id form the
// base so missing keys still resolve. Results are cached per code.
func (c *Catalog) Load(lang string) map[string]string {
	code := strings.ToLower(lang)
	if code == "" {
		code = "en_us"
	}

	c.mu.RLock()
	cached, ok := c.cache[code]
	c.mu.RUnlock()
	if ok {
		return cached
	}

	result := make(map[string]string)
	for _, layer := range []string{"en_us", "id", code} {
		for k, v := range loadFile(layer) {
			result[k] = v
		}
	}

	c.mu.Lock()
	c.cache[code] = result
	c.mu.Unlock()
	return result
}

func loadFile(code string) map[string]string {
	data, err := localeFS.ReadFile(path.Join("locales", code+".json"))
	if err != nil {
		return nil
	}

	var wrapped localeFile
	if err := json.Unmarshal(data, &wrapped); err == nil && len(wrapped.Keys) > 0 {
		return wrapped.Keys
	}

	var flat map[string]string
	if err := json.Unmarshal(data, &flat); err != nil {
		return nil
	}
	return flat
}
