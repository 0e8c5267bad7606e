package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/javajoker/imob-backoffice/internal/i18n"
)

func TestParseLanguage(t *testing.T) {
	cases := map[string]string{
		"pt-BR,pt;q=0.9,en;q=0.8": i18n.LangPortuguese,
		"en-US,en;q=0.9":          i18n.LangEnglish,
		"fr-FR, en;q=0.5":         i18n.LangEnglish,
		"PT_br":                   i18n.LangPortuguese,
		" en ":                    i18n.LangEnglish,
	}
	for header, want := range cases {
		assert.Equal(t, want, ParseLanguage(header), header)
	}

	assert.Equal(t, i18n.DefaultLanguage(), ParseLanguage(""))
	assert.Equal(t, i18n.DefaultLanguage(), ParseLanguage("de-DE,fr"))
}
