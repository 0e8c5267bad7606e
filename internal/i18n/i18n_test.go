package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateFallsBack(t *testing.T) {
	require.NoError(t, Initialize(LangPortuguese))

	assert.Equal(t, "Authentication required", T(LangEnglish, KeyAuthRequired))
	assert.Equal(t, "Autenticação necessária", T(LangPortuguese, KeyAuthRequired))
	// unknown language uses the default
	assert.Equal(t, "Autenticação necessária", T("fr", KeyAuthRequired))
	// unknown key is echoed
	assert.Equal(t, "no.such.key", T(LangEnglish, "no.such.key"))
}

func TestTranslateFormatsArguments(t *testing.T) {
	assert.Equal(t, "Invalid request", T(LangEnglish, KeyValidationInvalid, "request"))
}

func TestEveryLocaleHasTheSameKeys(t *testing.T) {
	require.NoError(t, Initialize(""))

	en := instance.translations[LangEnglish]
	pt := instance.translations[LangPortuguese]
	require.NotEmpty(t, en)
	for key := range en {
		assert.Contains(t, pt, key)
	}
	assert.Len(t, pt, len(en))
	assert.ElementsMatch(t, []string{LangEnglish, LangPortuguese}, GetSupportedLanguages())
}
