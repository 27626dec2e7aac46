package api

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/mathnotes-io/mathnotes/internal/access"
	"github.com/mathnotes-io/mathnotes/internal/auth"
	"github.com/mathnotes-io/mathnotes/internal/content"
	"github.com/mathnotes-io/mathnotes/internal/document"
	"github.com/mathnotes-io/mathnotes/internal/mathtex"
	"github.com/mathnotes-io/mathnotes/internal/tier"
)

type segmentView struct {
	Kind document.SegmentKind `json:"kind"`
	Text string               `json:"text,omitempty"`
	Math *mathtex.Rendered    `json:"math,omitempty"`
}

type blockView struct {
	Kind     document.Kind     `json:"kind"`
	Level    int               `json:"level,omitempty"`
	Text     string            `json:"text,omitempty"`
	Ordered  bool              `json:"ordered,omitempty"`
	Segments []segmentView     `json:"segments,omitempty"`
	Math     *mathtex.Rendered `json:"math,omitempty"`
}

func renderBlocks(ts mathtex.Typesetter, blocks []document.Block, log zerolog.Logger) []blockView {
	out := make([]blockView, 0, len(blocks))
	for _, b := range blocks {
		v := blockView{Kind: b.Kind, Level: b.Level, Text: b.Text, Ordered: b.Ordered}
		switch b.Kind {
		case document.KindMathDisplay:
			r := mathtex.Render(ts, b.Formula, true, log)
			v.Math = &r
		case document.KindParagraph:
			v.Segments = make([]segmentView, 0, len(b.Segments))
			for _, s := range b.Segments {
				sv := segmentView{Kind: s.Kind}
				if s.Kind == document.SegmentMath {
					r := mathtex.Render(ts, s.Text, false, log)
					sv.Math = &r
				} else {
					sv.Text = s.Text
				}
				v.Segments = append(v.Segments, sv)
			}
		}
		out = append(out, v)
	}
	return out
}

type categoryView struct {
	content.Category
	NoteCount int `json:"noteCount"`
}

type noteDetailView struct {
	content.Note
	CategoryName string         `json:"categoryName"`
	TierInfo     tier.Info      `json:"tierInfo"`
	Access       access.Outcome `json:"access"`
	Blocks       []blockView    `json:"blocks"`
	Paywall      *access.Prompt `json:"paywall,omitempty"`
}

type videoDetailView struct {
	content.Video
	CategoryName string          `json:"categoryName"`
	Related      []content.Video `json:"related"`
}

type sessionView struct {
	User      auth.User `json:"user"`
	ExpiresAt string    `json:"expiresAt"`
	Token     string    `json:"token,omitempty"`
}

func newSessionView(s *auth.Session, withToken bool) sessionView {
	v := sessionView{User: s.User, ExpiresAt: s.ExpiresAt.UTC().Format(time.RFC3339)}
	if withToken {
		v.Token = s.Token
	}
	return v
}

func summaries(notes []content.Note) []content.Note {
	out := make([]content.Note, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.Summary())
	}
	return out
}
