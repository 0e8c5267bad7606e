// internal/middleware/i18n.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/imob-backoffice/internal/i18n"
	"github.com/javajoker/imob-backoffice/internal/utils"
)

func I18nMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(utils.ContextKeyLang, ParseLanguage(c.GetHeader("Accept-Language")))
		c.Next()
	}
}

// ParseLanguage picks the first supported entry of an Accept-Language
// header, e.g. "pt-BR,pt;q=0.9,en;q=0.8".
func ParseLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.ToLower(strings.TrimSpace(strings.Split(part, ";")[0]))
		switch {
		case tag == "pt" || strings.HasPrefix(tag, "pt-") || strings.HasPrefix(tag, "pt_"):
			return i18n.LangPortuguese
		case tag == "en" || strings.HasPrefix(tag, "en-") || strings.HasPrefix(tag, "en_"):
			return i18n.LangEnglish
		}
	}
	return i18n.DefaultLanguage()
}
