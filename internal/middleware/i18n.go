// internal/middleware/i18n.go
package middleware

import (
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dravik/licensing-console/internal/i18n"
)

// I18nMiddleware picks the response language from Accept-Language among
// the loaded locales, falling back to defaultLang.
func I18nMiddleware(defaultLang string) gin.HandlerFunc {
	if defaultLang == "" {
		defaultLang = i18n.DefaultLang
	}
	return func(c *gin.Context) {
		c.Set("lang", parseLanguage(c.GetHeader("Accept-Language"), defaultLang, i18n.GetSupportedLanguages()))
		c.Next()
	}
}

// parseLanguage walks a header like "zh-TW,zh;q=0.9,en;q=0.8" in order and
// returns the first tag a locale is loaded for.
func parseLanguage(header, defaultLang string, supported []string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.Split(part, ";")[0])
		if lang := normalizeLanguage(tag); lang != "" && slices.Contains(supported, lang) {
			return lang
		}
	}
	return defaultLang
}

// Convert common language codes
func normalizeLanguage(tag string) string {
	switch tag {
	case "zh-TW", "zh-Hant", "zh_TW", "zh-HK", "zh":
		return "zh_TW"
	case "en", "en-US", "en-GB":
		return "en"
	default:
		return ""
	}
}
