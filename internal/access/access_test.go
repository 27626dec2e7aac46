package access

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathnotes-io/mathnotes/internal/content"
	"github.com/mathnotes-io/mathnotes/internal/document"
	"github.com/mathnotes-io/mathnotes/internal/tier"
)

var samplePreview = []document.Block{document.Paragraph(document.PlainText("intro"))}

func viewers() []Viewer {
	vs := []Viewer{Anonymous}
	for _, t := range tier.All() {
		vs = append(vs, Viewer{Tier: t, Present: true})
	}
	return vs
}

func TestFreeContentIsAlwaysFull(t *testing.T) {
	for _, v := range viewers() {
		for _, preview := range [][]document.Block{nil, samplePreview} {
			d := Decide(v, tier.Free, preview)
			assert.Equal(t, FullAccess, d.Outcome, "viewer %+v", v)
		}
	}
}

func TestDecideMatrix(t *testing.T) {
	for _, v := range viewers() {
		for _, required := range tier.All() {
			name := fmt.Sprintf("present=%v/%s requires %s", v.Present, v.Tier, required)
			t.Run(name, func(t *testing.T) {
				granted := required == tier.Free || (v.Present && tier.Rank(v.Tier) >= tier.Rank(required))

				withPreview := Decide(v, required, samplePreview)
				without := Decide(v, required, nil)

				if granted {
					assert.Equal(t, FullAccess, withPreview.Outcome)
					assert.Equal(t, FullAccess, without.Outcome)
					return
				}
				assert.Equal(t, PreviewAccess, withPreview.Outcome)
				assert.Equal(t, samplePreview, withPreview.Blocks)
				assert.Equal(t, NoAccess, without.Outcome)
				assert.Nil(t, without.Blocks)
			})
		}
	}
}

func TestAbsentViewerIgnoresTier(t *testing.T) {
	v := Viewer{Tier: tier.Premium, Present: false}
	assert.Equal(t, NoAccess, Decide(v, tier.Supporter, nil).Outcome)
}

func TestUndeclaredViewerTierIsNotEntitled(t *testing.T) {
	v := Viewer{Tier: tier.Tier(7), Present: true}

	for _, required := range []tier.Tier{tier.Supporter, tier.Premium} {
		assert.Equal(t, PreviewAccess, Decide(v, required, samplePreview).Outcome, required.String())
		assert.Equal(t, NoAccess, Decide(v, required, nil).Outcome, required.String())
	}
	assert.Equal(t, FullAccess, Decide(v, tier.Free, nil).Outcome)
}

func TestEmptyPreviewIsStillAPreview(t *testing.T) {
	d := Decide(Anonymous, tier.Premium, []document.Block{})
	assert.Equal(t, PreviewAccess, d.Outcome)
	assert.Empty(t, d.Blocks)
}

func TestRenderNote(t *testing.T) {
	note := content.Note{
		ID:                    "n",
		Tier:                  tier.Supporter,
		PreviewParagraphLimit: 1,
		Body:                  "# Title\n\nFirst.\n\nSecond.\n\nThird.",
	}

	d := RenderNote(Anonymous, note)
	require.Equal(t, PreviewAccess, d.Outcome)
	require.Len(t, d.Blocks, 2)
	assert.Equal(t, document.KindHeading, d.Blocks[0].Kind)
	assert.Equal(t, "First.", d.Blocks[1].PlainText())

	d = RenderNote(Viewer{Tier: tier.Premium, Present: true}, note)
	assert.Equal(t, FullAccess, d.Outcome)
	assert.Len(t, d.Blocks, 4)

	note.PreviewParagraphLimit = 0
	d = RenderNote(Viewer{Tier: tier.Free, Present: true}, note)
	assert.Equal(t, NoAccess, d.Outcome)
	assert.Nil(t, d.Blocks)

	free := content.Note{ID: "f", Tier: tier.Free, Body: "Hello."}
	d = RenderNote(Anonymous, free)
	assert.Equal(t, FullAccess, d.Outcome)
	assert.Len(t, d.Blocks, 1)
}

func TestPromptFor(t *testing.T) {
	p := PromptFor(Anonymous, tier.Supporter)
	assert.Equal(t, "Premium Content", p.Title)
	assert.Equal(t, "Sign in and subscribe to Supporter to access this premium content.", p.Message)
	assert.Equal(t, "Unlock Content", p.Action)
	assert.Equal(t, "Starting at $5/month", p.Price)
	assert.Equal(t, []string{"Early Access", "PDF Downloads"}, p.Features)
	assert.Empty(t, p.CurrentPlan)

	p = PromptFor(Viewer{Tier: tier.Supporter, Present: true}, tier.Premium)
	assert.Equal(t, "Upgrade Required", p.Title)
	assert.Equal(t, "This content is exclusive to Premium subscribers. Upgrade your account to unlock it.", p.Message)
	assert.Equal(t, "Upgrade to Premium", p.Action)
	assert.Equal(t, "Starting at $15/month", p.Price)
	assert.Equal(t, "supporter", p.CurrentPlan)
	assert.Equal(t, "crown", p.Badge)
}
