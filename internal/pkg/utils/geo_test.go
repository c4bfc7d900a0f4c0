package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCoordinate(t *testing.T) {
	v := ParseCoordinate(" 24.5 ")
	require.NotNil(t, v)
	assert.Equal(t, 24.5, *v)

	assert.Nil(t, ParseCoordinate(""))
	assert.Nil(t, ParseCoordinate("abc"))
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "1", FirstNonEmpty("", " ", "1", "2"))
	assert.Equal(t, "", FirstNonEmpty("", ""))
}

