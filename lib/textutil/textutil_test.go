package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	require.Equal(t, "cgv강남", NormalizeName(" CGV 강남\n"))
	require.Equal(t, "용산아이파크몰", NormalizeName("용산 아이파크몰"))
	require.Equal(t, "", NormalizeName(" \t\n"))
}

func TestMatchName(t *testing.T) {
	require.True(t, MatchName("용산아이파크몰"))
	require.True(t, MatchName("용산아이파크몰", "아이파크"))
	require.True(t, MatchName("용산아이파크몰", "아이 파크"))
	require.True(t, MatchName("CGV강남", "cgv"))
	require.True(t, MatchName("압구정", "강남", "압구"))
	require.False(t, MatchName("압구정", "강남"))
}
