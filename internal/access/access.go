// Package access decides how much of a tiered note a viewer may see.
package access

import (
	"github.com/mathnotes-io/mathnotes/internal/content"
	"github.com/mathnotes-io/mathnotes/internal/document"
	"github.com/mathnotes-io/mathnotes/internal/tier"
)

// Viewer is the part of a session the gate looks at. Tier is ignored when
// Present is false.
type Viewer struct {
	Tier    tier.Tier
	Present bool
}

// Anonymous is the viewer with no session.
var Anonymous = Viewer{}

type Outcome string

const (
	FullAccess    Outcome = "full"
	PreviewAccess Outcome = "preview"
	NoAccess      Outcome = "none"
)

// Decision is the result of Decide. Blocks is set only for PreviewAccess.
type Decision struct {
	Outcome Outcome
	Blocks  []document.Block
}

// Decide gates content that requires the given tier. A nil preview means no
// preview was supplied; an empty non-nil one still yields PreviewAccess.
// A viewer whose tier is outside the declared set is treated as unentitled.
func Decide(v Viewer, required tier.Tier, preview []document.Block) Decision {
	if required == tier.Free {
		return Decision{Outcome: FullAccess}
	}
	if v.Present && v.Tier.Valid() && v.Tier.AtLeast(required) {
		return Decision{Outcome: FullAccess}
	}
	if preview == nil {
		return Decision{Outcome: NoAccess}
	}
	return Decision{Outcome: PreviewAccess, Blocks: preview}
}

// RenderNote parses what v may read of n. On FullAccess Blocks holds the whole
// body, on PreviewAccess the bounded preview, and on NoAccess nothing.
func RenderNote(v Viewer, n content.Note) Decision {
	var preview []document.Block
	if n.Tier != tier.Free {
		preview = document.Preview(n.Body, n.PreviewParagraphLimit)
	}

	d := Decide(v, n.Tier, preview)
	if d.Outcome == FullAccess {
		d.Blocks = document.Parse(n.Body, 0)
	}
	return d
}
