package extractor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		minLen int
		want   []string
	}{
		{"empty", "", 10, nil},
		{"mixed terminators", "First sentence here! Second one here? Third one here.", 5,
			[]string{"First sentence here", "Second one here", "Third one here"}},
		{"drops short fragments", "Ok. This one is long enough.", 10, []string{"This one is long enough"}},
		{"collapses repeated punctuation", "Really?!... Yes it is quite true.", 5, []string{"Really", "Yes it is quite true"}},
		{"no terminator", "a trailing sentence without punctuation", 10,
			[]string{"a trailing sentence without punctuation"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitSentences(tt.text, tt.minLen)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractPainPoints(t *testing.T) {
	got := ExtractPainPoints("I think this is hard and I feel confused.")

	require.Len(t, got, 1)
	assert.Contains(t, got[0], "hard")
	assert.Contains(t, got[0], "confused")
}

func TestExtractPainPoints_NoMatches(t *testing.T) {
	got := ExtractPainPoints("Everything went smoothly today. The layout looked great.")

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestExtractPainPoints_Empty(t *testing.T) {
	assert.Empty(t, ExtractPainPoints(""))
}

func TestExtractPainPoints_LimitAndOrder(t *testing.T) {
	transcript := "The menu was slow to open. The checkout button is broken. " +
		"Search is unclear to me. Filtering was a real struggle."

	got := ExtractPainPoints(transcript)

	assert.Equal(t, []string{
		"The menu was slow to open",
		"The checkout button is broken",
		"Search is unclear to me",
	}, got)
}

func TestExtractPainPoints_StripsQuotesAndKeepsCase(t *testing.T) {
	got := ExtractPainPoints(`"This Form Doesn't Work at all"!`)

	assert.Equal(t, []string{"This Form Doesn't Work at all"}, got)
}

func TestExtractPainPoints_TooLong(t *testing.T) {
	long := "This is a problem " + strings.Repeat("x", 200)

	assert.Empty(t, ExtractPainPoints(long), "sentences over 200 chars are dropped")
}

func TestExtractQuotes(t *testing.T) {
	got := ExtractQuotes("I think this is hard and I feel confused.")

	require.Len(t, got, 1)
	assert.Contains(t, got[0], "I think")
	assert.Contains(t, got[0], "I feel")
}

func TestExtractQuotes_LengthBounds(t *testing.T) {
	tests := []struct {
		name       string
		transcript string
		want       int
	}{
		{"under 20 chars", "I like the color.", 0},
		{"exactly 20 chars", "I like it a lot, yes.", 1},
		{"over 150 chars", "I prefer " + strings.Repeat("y", 150) + ".", 0},
		{"no first-person marker", "The navigation bar sits at the top of the page.", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, ExtractQuotes(tt.transcript), tt.want)
		})
	}
}

func TestExtractQuotes_Limit(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 8; i++ {
		sb.WriteString("I would prefer a bigger search box. ")
	}

	assert.Len(t, ExtractQuotes(sb.String()), 5)
}

func TestExtractors_MayOverlap(t *testing.T) {
	transcript := "I feel the signup step is confusing and hard."

	pains := ExtractPainPoints(transcript)
	quotes := ExtractQuotes(transcript)

	require.Len(t, pains, 1)
	require.Len(t, quotes, 1)
	assert.Equal(t, pains[0], quotes[0], "same sentence in both lists")
}
