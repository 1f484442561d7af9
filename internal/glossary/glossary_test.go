package glossary_test

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/myrjola/avalanchemystery/internal/glossary"
	"github.com/myrjola/avalanchemystery/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func terms(links []models.EducationalLink) []string {
	out := make([]string, 0, len(links))
	for _, l := range links {
		out = append(out, l.Term)
	}
	return out
}

func TestAnnotate(t *testing.T) {
	g := glossary.Default()
	tests := []struct {
		name  string
		texts []string
		want  []string
	}{
		{
			name:  "no terms",
			texts: []string{"The butler did it."},
			want:  []string{},
		},
		{
			name:  "matches term case insensitively",
			texts: []string{"She drained the LIQUIDITY POOL at midnight."},
			want:  []string{"Liquidity Pool"},
		},
		{
			name:  "matches key without separator",
			texts: []string{"gasfees spiked"},
			want:  []string{"Gas Fees"},
		},
		{
			name:  "matches across several texts in glossary order",
			texts: []string{"A validator went offline", "after a smart contract upgrade"},
			want:  []string{"Smart Contract", "Validator"},
		},
		{
			name:  "matches short form of parenthesised term",
			texts: []string{"Classic MEV sandwich"},
			want:  []string{"MEV (Maximum Extractable Value)"},
		},
		{
			name:  "one text can attach many entries",
			texts: []string{"A flash loan funded the governance attack on the DeFi protocol"},
			want:  []string{"DeFi (Decentralized Finance)", "Governance Attack", "Flash Loan"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, terms(g.Annotate(tt.texts...)))
		})
	}
}

func TestAnnotateCaseIsIdempotent(t *testing.T) {
	g := glossary.Default()
	c := models.MysteryCase{ //nolint:exhaustruct // only suspects and clues are annotated
		Suspects: []models.Suspect{{ //nolint:exhaustruct // links are attached below
			Name: "Ava", Background: "Runs a validator node", PossibleMotive: "staking rewards", AvaxConnection: "subnet operator",
		}},
		Clues: []models.Clue{{ //nolint:exhaustruct // links are attached below
			ID: 1, Description: "A bridge transfer at 3 AM", Concept: "wrapped tokens",
		}},
	}
	g.AnnotateCase(&c)
	first := terms(c.Suspects[0].EducationalLinks)
	require.Equal(t, []string{"Subnet", "Validator", "Staking"}, first)
	require.Equal(t, []string{"Bridge"}, terms(c.Clues[0].EducationalLinks))

	g.AnnotateCase(&c)
	require.Equal(t, first, terms(c.Suspects[0].EducationalLinks))
}

func TestLookup(t *testing.T) {
	g := glossary.Default()
	link, ok := g.Lookup("flash_loan")
	require.True(t, ok)
	require.NotEmpty(t, link.DetailedExplanation)

	_, ok = g.Lookup("rug_pull")
	require.False(t, ok)
	require.Len(t, g.Entries(), 18)
}

func TestFormatMarkdown(t *testing.T) {
	g := glossary.Default()
	text := "Funds left the liquidity pool through a bridge."
	got := glossary.FormatMarkdown(text, g.Annotate(text))
	assert.Contains(t, got, `Liquidity Pool [?](https://traderjoe.xyz/learn/what-is-a-liquidity-pool "A shared pot`)
	assert.Contains(t, got, `Bridge [?](https://docs.avax.network/cross-chain "Connects different blockchains.`)
	assert.True(t, strings.HasPrefix(got, "Funds left the "))

	require.Equal(t, text, glossary.FormatMarkdown(text, nil))
}

func TestFormatHTML(t *testing.T) {
	g := glossary.Default()
	text := "Validator staking <script> went wrong for the validator"
	got := glossary.FormatHTML(text, g.Annotate(text))

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(got))
	require.NoError(t, err)
	require.Equal(t, 0, doc.Find("script").Length())

	anchors := doc.Find("a.edu-link")
	require.Equal(t, 2, anchors.Length())
	first := anchors.First()
	assert.Equal(t, "Validator Staking", first.Text())
	href, _ := first.Attr("href")
	assert.Equal(t, "https://docs.avax.network/nodes/validate/what-is-staking", href)
	title, _ := first.Attr("title")
	assert.Equal(t, "Locking AVAX to help secure the network and earn rewards", title)
	assert.Equal(t, "Validator", anchors.Last().Text())
}
