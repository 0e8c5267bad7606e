// internal/i18n/i18n.go
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"sync"
)

//go:embed locales/*.json
var localeFS embed.FS

type I18n struct {
	mu           sync.RWMutex
	translations map[string]map[string]string
	defaultLang  string
}

var instance *I18n
var once sync.Once

// Initialize loads the embedded locales and sets the fallback language. It is
// safe to call more than once; only the first call loads.
func Initialize(defaultLang string) error {
	var err error
	once.Do(func() {
		instance, err = load()
	})
	if err != nil {
		return err
	}
	if defaultLang != "" && instance.has(defaultLang) {
		instance.mu.Lock()
		instance.defaultLang = defaultLang
		instance.mu.Unlock()
	}
	return nil
}

func load() (*I18n, error) {
	i := &I18n{
		translations: make(map[string]map[string]string),
		defaultLang:  LangPortuguese,
	}

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("failed to list locales: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}

		data, err := localeFS.ReadFile(path.Join("locales", name))
		if err != nil {
			return nil, fmt.Errorf("failed to read locale file %s: %w", name, err)
		}

		var translations map[string]string
		if err := json.Unmarshal(data, &translations); err != nil {
			return nil, fmt.Errorf("failed to unmarshal locale file %s: %w", name, err)
		}
		i.translations[strings.TrimSuffix(name, ".json")] = translations
	}

	return i, nil
}

func (i *I18n) has(lang string) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	_, ok := i.translations[lang]
	return ok
}

func (i *I18n) T(lang, key string, args ...interface{}) string {
	i.mu.RLock()
	defer i.mu.RUnlock()

	// Try to get translation for requested language
	if text, ok := i.translations[lang][key]; ok {
		return format(text, args)
	}

	// Fallback to default language
	if text, ok := i.translations[i.defaultLang][key]; ok {
		return format(text, args)
	}

	// Return key if no translation found
	return key
}

func format(text string, args []interface{}) string {
	if len(args) > 0 {
		return fmt.Sprintf(text, args...)
	}
	return text
}

// T translates with the package instance, loading the embedded locales on
// first use if Initialize was never called.
func T(lang, key string, args ...interface{}) string {
	if err := Initialize(""); err != nil {
		return key
	}
	return instance.T(lang, key, args...)
}

func DefaultLanguage() string {
	if err := Initialize(""); err != nil {
		return LangPortuguese
	}
	instance.mu.RLock()
	defer instance.mu.RUnlock()
	return instance.defaultLang
}

func GetSupportedLanguages() []string {
	if err := Initialize(""); err != nil {
		return []string{LangPortuguese}
	}

	instance.mu.RLock()
	defer instance.mu.RUnlock()

	langs := make([]string, 0, len(instance.translations))
	for lang := range instance.translations {
		langs = append(langs, lang)
	}
	return langs
}
