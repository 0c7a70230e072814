// Package i18n translates user-facing error messages. Korean is the default;
// English is served when the client asks for it.
package i18n

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

const DefaultLang = "ko-KR"

var (
	bundle      *i18n.Bundle
	defaultLang = DefaultLang
	mu          sync.RWMutex
	once        sync.Once
)

// Init loads the embedded catalogs. It is safe to call more than once.
func Init(lang string) error {
	var err error
	once.Do(func() {
		b := i18n.NewBundle(language.Korean)
		b.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)
		for _, l := range []string{"ko-KR", "en-US"} {
			if _, loadErr := b.LoadMessageFileFS(localeFS, fmt.Sprintf("locales/%s.yaml", l)); loadErr != nil {
				err = fmt.Errorf("failed to load locale %s: %w", l, loadErr)
				return
			}
		}
		bundle = b
	})
	if lang != "" {
		mu.Lock()
		defaultLang = lang
		mu.Unlock()
	}
	return err
}

// T translates id for lang (empty lang uses the default). Unknown ids come back unchanged.
func T(lang, id string) string {
	if err := Init(""); err != nil || bundle == nil {
		return id
	}
	if lang == "" {
		mu.RLock()
		lang = defaultLang
		mu.RUnlock()
	}
	msg, err := i18n.NewLocalizer(bundle, lang).Localize(&i18n.LocalizeConfig{MessageID: id})
	if err != nil {
		return id
	}
	return msg
}

// ParseAcceptLanguage picks the first language of an Accept-Language header.
// "en-US,en;q=0.9" -> "en-US"
func ParseAcceptLanguage(header string) string {
	first := strings.TrimSpace(strings.Split(header, ",")[0])
	if idx := strings.Index(first, ";"); idx != -1 {
		first = first[:idx]
	}
	switch lower := strings.ToLower(first); {
	case strings.HasPrefix(lower, "en"):
		return "en-US"
	case strings.HasPrefix(lower, "ko"):
		return "ko-KR"
	}
	mu.RLock()
	defer mu.RUnlock()
	return defaultLang
}
