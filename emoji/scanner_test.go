package emoji

import (
	"math/rand"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	. "parrot/common"
	"parrot/fixtures"
)

func TestScanLongestMatchWins(t *testing.T) {
	catalog := testCatalog(t, "\U0001F3F3", "\U0001F3F3️‍\U0001F308")

	tokens := Extract(catalog, "\U0001F3F3️‍\U0001F308")
	require.Len(t, tokens, 1)
	require.Equal(t, TokenUnicode, tokens[0].Kind)
	require.Equal(t, "\U0001F3F3️‍\U0001F308", tokens[0].Emoji)
}

func TestScanCustomEmoji(t *testing.T) {
	catalog := testCatalog(t)

	tokens := Extract(catalog, "gg <:lrrJUDGE:289173939802996736> well played")
	require.Len(t, tokens, 1)
	require.Equal(t, TokenCustom, tokens[0].Kind)
	require.Equal(t, "lrrJUDGE", tokens[0].Name)
	require.Equal(t, Snowflake(289173939802996736), tokens[0].ID)
}

func TestScanOverflowingCustomID(t *testing.T) {
	catalog := testCatalog(t)
	require.Empty(t, Extract(catalog, "<:bad:99999999999999999999999999>"))
}

func TestScanOverflowFallsThrough(t *testing.T) {
	catalog := testCatalog(t, "\U0001F600")

	tokens := Extract(catalog, "<:bad:99999999999999999999999999> \U0001F600")
	require.Len(t, tokens, 1)
	require.Equal(t, "\U0001F600", tokens[0].Emoji)
}

func TestScanCustomWinsOverCatalog(t *testing.T) {
	// "<" can end up in the catalog via an asset named 3c.svg. A
	// custom reference still wins at the same position.
	catalog := testCatalog(t, "<")

	tokens := Extract(catalog, "<:ab:123>")
	require.Len(t, tokens, 1)
	require.Equal(t, TokenCustom, tokens[0].Kind)
	require.Equal(t, "ab", tokens[0].Name)

	// A one letter name is not a reference, so the "<" scans alone.
	tokens = Extract(catalog, "<:a:123>")
	require.Len(t, tokens, 1)
	require.Equal(t, TokenUnicode, tokens[0].Kind)
	require.Equal(t, "<", tokens[0].Emoji)
}

func TestScanAdjacent(t *testing.T) {
	catalog := testCatalog(t, "\U0001F600", "\U0001F44D")

	tokens := Extract(catalog, "\U0001F600\U0001F44D\U0001F600")
	require.Len(t, tokens, 3)
	require.Equal(t, "\U0001F600", tokens[0].Emoji)
	require.Equal(t, "\U0001F44D", tokens[1].Emoji)
	require.Equal(t, "\U0001F600", tokens[2].Emoji)
}

func TestScanMixedText(t *testing.T) {
	catalog := testCatalog(t, "\U0001F600", "\U0001F44D")

	tokens := Extract(catalog, "hi \U0001F600 gg <:pog:200> bye\U0001F44D!")
	require.Len(t, tokens, 3)
	require.Equal(t, "\U0001F600", tokens[0].Emoji)
	require.Equal(t, "pog", tokens[1].Name)
	require.Equal(t, "\U0001F44D", tokens[2].Emoji)
}

func TestScanNoMatches(t *testing.T) {
	catalog := testCatalog(t, "\U0001F600")

	require.Empty(t, Extract(catalog, "plain old text, no emoji here"))
	require.Empty(t, Extract(catalog, ""))
	require.Empty(t, Extract(testCatalog(t), "anything at all"))
}

func TestScanTerminationBound(t *testing.T) {
	catalog := testCatalog(t, "\U0001F600")

	texts := []string{
		"",
		"......",
		strings.Repeat("\U0001F600", 100),
		"\xff\xfe\xfd",
		"a\xffb\U0001F600",
		strings.Repeat("<:", 50),
	}

	for _, text := range texts {
		tokens := Extract(catalog, text)
		require.LessOrEqual(t, len(tokens), utf8.RuneCountInString(text))
	}
}

func TestScanInvalidUTF8MakesProgress(t *testing.T) {
	catalog := testCatalog(t, "\U0001F600")

	tokens := Extract(catalog, "\xff\U0001F600\xfe")
	require.Len(t, tokens, 1)
	require.Equal(t, "\U0001F600", tokens[0].Emoji)
}

func TestScanRoundTrip(t *testing.T) {
	catalog := testCatalog(t, "\U0001F600", "\U0001F44D", "\U0001F3F3️‍\U0001F308")
	text := "\U0001F600<:pog:289173939802996736>\U0001F3F3️‍\U0001F308\U0001F44D"

	var rebuilt strings.Builder
	for _, token := range Extract(catalog, text) {
		rebuilt.WriteString(token.String())
	}
	require.Equal(t, text, rebuilt.String())
}

func TestScannerStepwise(t *testing.T) {
	catalog := testCatalog(t, "\U0001F600")
	s := NewScanner(catalog, "\U0001F600 and <:gg:42>")

	require.True(t, s.Scan())
	require.Equal(t, "\U0001F600", s.Token().Emoji)

	require.True(t, s.Scan())
	require.Equal(t, Snowflake(42), s.Token().ID)

	require.False(t, s.Scan())
	require.False(t, s.Scan())
}

func TestScanFakeMessages(t *testing.T) {
	catalog := testCatalog(t, fixtures.StockEmojis()...)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 100; i++ {
		text, planted := fixtures.FakeMessage(rng, fixtures.StockEmojis())
		require.Len(t, Extract(catalog, text), planted, text)
	}
}

func TestKindName(t *testing.T) {
	require.Equal(t, "unicode", KindName(TokenUnicode))
	require.Equal(t, "custom", KindName(TokenCustom))
}

func BenchmarkScan(b *testing.B) {
	catalog := testCatalog(b, "\U0001F600", "\U0001F44D", "\U0001F3F3️‍\U0001F308")
	text := strings.Repeat("the quick \U0001F600 fox <:judge:289173939802996736> jumps \U0001F3F3️‍\U0001F308 over ", 20)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Extract(catalog, text)
	}
}
