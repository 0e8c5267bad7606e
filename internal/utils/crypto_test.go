package utils

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateContractNumber(t *testing.T) {
	n, err := GenerateContractNumber(time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^CT-202403-[A-Z0-9]{6}$`), n)
}

func TestGenerateRandomString(t *testing.T) {
	a, err := GenerateRandomString(16)
	require.NoError(t, err)
	b, err := GenerateRandomString(16)
	require.NoError(t, err)
	assert.Len(t, a, 16)
	assert.NotEqual(t, a, b)
}
