package hashtag

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSynthesizeIsDeterministic(t *testing.T) {
	keywords := []string{"viagem", "praia", "sol"}
	used := []string{"#viagem"}

	first := Synthesize(keywords, used, 7)
	second := Synthesize(keywords, used, 7)
	require.Equal(t, first, second)
}

func TestSynthesizeRotatesKeywordPairs(t *testing.T) {
	got := Synthesize([]string{"mar", "sol"}, nil, 2)
	require.Equal(t, []string{"#marsol", "#solmar"}, got)
}

func TestSynthesizeBumpsSuffixEveryWindow(t *testing.T) {
	// two keywords only yield two distinct pair rotations, so later
	// candidates must rely on the growing numeric suffix
	got := Synthesize([]string{"mar", "sol"}, nil, 6)
	require.Len(t, got, 6)
	requireAllUnique(t, got)
	require.Contains(t, got, "#marsol")
	require.Contains(t, got, "#solmar")
	require.Contains(t, got, "#marsol2")
}

func TestSynthesizeSingleKeywordUsesNumericSeries(t *testing.T) {
	got := Synthesize([]string{"praia"}, nil, 3)
	require.Equal(t, []string{"#praia", "#praia2", "#praia3"}, got)
}

func TestSynthesizeSingleKeywordSkipsUsedValues(t *testing.T) {
	got := Synthesize([]string{"praia"}, []string{"#praia", "#PRAIA2"}, 2)
	require.Equal(t, []string{"#praia3", "#praia4"}, got)
}

func TestSynthesizeWithoutKeywordsProducesPlaceholders(t *testing.T) {
	got := Synthesize(nil, nil, 3)
	require.Equal(t, []string{"#hashtag", "#hashtag2", "#hashtag3"}, got)
}

func TestSynthesizeTerminatesAgainstLargeUsedSet(t *testing.T) {
	used := make([]string, 0, 101)
	used = append(used, "#hashtag")
	for n := 2; n <= 100; n++ {
		used = append(used, fmt.Sprintf("#hashtag%d", n))
	}

	got := Synthesize(nil, used, 5)
	require.Len(t, got, 5)
	require.Equal(t, "#hashtag101", got[0])
	requireAllUnique(t, append(append([]string{}, used...), got...))
}

func TestSynthesizeAvoidsCollisionsWithUsedSet(t *testing.T) {
	got := Synthesize([]string{"mar", "sol"}, []string{"#marsol"}, 2)
	require.NotContains(t, got, "#marsol")
	require.Len(t, got, 2)
}

func TestSynthesizeSanitizesNonAlphanumericKeywords(t *testing.T) {
	got := Synthesize([]string{"@@", "!!"}, nil, 1)
	require.Equal(t, []string{"#hashtag"}, got)
}

func TestSynthesizeProducesCanonicalOutput(t *testing.T) {
	got := Synthesize([]string{"Férias", "Praia Azul"}, nil, 4)
	require.Len(t, got, 4)
	for _, tag := range got {
		require.True(t, strings.HasPrefix(tag, Marker))
		require.NotContains(t, tag, " ")
		require.Equal(t, strings.ToLower(tag), tag)
	}
}

func requireAllUnique(t *testing.T, tags []string) {
	t.Helper()
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		key := strings.ToLower(tag)
		_, dup := seen[key]
		require.False(t, dup, "duplicate hashtag %q", tag)
		seen[key] = struct{}{}
	}
}
