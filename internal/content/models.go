package content

import (
	"slices"

	"github.com/mathnotes-io/mathnotes/internal/tier"
)

// Note is a long-form article. PreviewParagraphLimit is only meaningful for
// notes above the free tier.
type Note struct {
	ID                    string    `json:"id"`
	Title                 string    `json:"title"`
	Excerpt               string    `json:"excerpt"`
	Body                  string    `json:"body,omitempty"`
	Category              string    `json:"category"`
	Tags                  []string  `json:"tags"`
	Tier                  tier.Tier `json:"tier"`
	PreviewParagraphLimit int       `json:"previewParagraphLimit,omitempty"`
	ReadTime              string    `json:"readTime,omitempty"`
	Date                  string    `json:"date,omitempty"`
	VideoURL              string    `json:"videoUrl,omitempty"`
}

// Summary returns the note without its body.
func (n Note) Summary() Note {
	s := n.clone()
	s.Body = ""
	return s
}

func (n Note) clone() Note {
	n.Tags = slices.Clone(n.Tags)
	return n
}

// Video points at externally hosted content. Videos are not tier gated.
type Video struct {
	ID                string `json:"id" yaml:"id"`
	Title             string `json:"title" yaml:"title"`
	Description       string `json:"description" yaml:"description"`
	Category          string `json:"category" yaml:"category"`
	ExternalReference string `json:"externalReference" yaml:"externalReference"`
	DurationLabel     string `json:"duration" yaml:"duration"`
	Date              string `json:"date,omitempty" yaml:"date"`
	Thumbnail         string `json:"thumbnail,omitempty" yaml:"thumbnail"`
}

type Category struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Icon        string `json:"icon" yaml:"icon"`
}
