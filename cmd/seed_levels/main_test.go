package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevels(t *testing.T) {
	levels, err := parseLevels([]byte(`
levels:
  - level: 1
    percentage: "10"
  - level: 2
    percentage: "5.5"
`))
	require.NoError(t, err)
	require.Len(t, levels, 2)
	require.Equal(t, 2, levels[1].Level)
	require.Equal(t, "5.5", levels[1].Percentage.String())
}

func TestParseLevelsErrors(t *testing.T) {
	for _, doc := range []string{
		"levels: [",
		"levels: []",
		"levels:\n  - level: 1\n    percentage: ten\n",
	} {
		_, err := parseLevels([]byte(doc))
		require.Error(t, err, doc)
	}
}
