// Package document turns a note body into typed content blocks.
package document

import "strings"

// Kind identifies the variant of a Block.
type Kind string

const (
	KindHeading     Kind = "heading"
	KindParagraph   Kind = "paragraph"
	KindListItem    Kind = "list_item"
	KindMathDisplay Kind = "math_display"
)

// SegmentKind identifies a run of paragraph text.
type SegmentKind string

const (
	SegmentText SegmentKind = "text"
	SegmentMath SegmentKind = "math"
)

// Segment is one run inside a paragraph: plain text or an inline formula.
type Segment struct {
	Kind SegmentKind `json:"kind"`
	Text string      `json:"text"`
}

func PlainText(s string) Segment { return Segment{Kind: SegmentText, Text: s} }
func MathSpan(s string) Segment  { return Segment{Kind: SegmentMath, Text: s} }

// Block is a tagged variant. Only the fields belonging to Kind are set:
//
//	heading:      Level, Text
//	paragraph:    Segments
//	list_item:    Ordered, Text
//	math_display: Formula
type Block struct {
	Kind     Kind      `json:"kind"`
	Level    int       `json:"level,omitempty"`
	Text     string    `json:"text,omitempty"`
	Ordered  bool      `json:"ordered,omitempty"`
	Segments []Segment `json:"segments,omitempty"`
	Formula  string    `json:"formula,omitempty"`
}

func Heading(level int, text string) Block {
	return Block{Kind: KindHeading, Level: level, Text: text}
}

func Paragraph(segments ...Segment) Block {
	return Block{Kind: KindParagraph, Segments: segments}
}

func ListItem(ordered bool, text string) Block {
	return Block{Kind: KindListItem, Ordered: ordered, Text: text}
}

func MathDisplay(formula string) Block {
	return Block{Kind: KindMathDisplay, Formula: formula}
}

// CountsTowardLimit reports whether the block is paragraph-equivalent for the preview limit.
func (b Block) CountsTowardLimit() bool {
	return b.Kind != KindHeading
}

// PlainText flattens the block into its source text, formulas included verbatim.
func (b Block) PlainText() string {
	switch b.Kind {
	case KindParagraph:
		var sb strings.Builder
		for _, seg := range b.Segments {
			sb.WriteString(seg.Text)
		}
		return sb.String()
	case KindMathDisplay:
		return b.Formula
	default:
		return b.Text
	}
}
