package content

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mathnotes-io/mathnotes/internal/tier"
)

//go:embed catalog
var catalogFS embed.FS

const (
	categoriesFile = "categories.yaml"
	videosFile     = "videos.yaml"
	notesDir       = "notes"

	frontmatterFence = "---"
)

var ErrMalformedFrontmatter = errors.New("malformed frontmatter")

// File is one catalog file, named relative to the catalog root.
type File struct {
	Name string
	Data []byte
}

// Source yields the raw catalog files.
type Source interface {
	Files(ctx context.Context) ([]File, error)
}

// FSSource reads a catalog laid out under Root in an fs.FS.
type FSSource struct {
	FS   fs.FS
	Root string
}

// Embedded returns the catalog compiled into the binary.
func Embedded() FSSource {
	return FSSource{FS: catalogFS, Root: "catalog"}
}

func (s FSSource) Files(ctx context.Context) ([]File, error) {
	var files []File
	err := fs.WalkDir(s.FS, s.Root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := fs.ReadFile(s.FS, p)
		if err != nil {
			return err
		}
		name := strings.TrimPrefix(strings.TrimPrefix(p, s.Root), "/")
		files = append(files, File{Name: name, Data: data})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return files, nil
}

type frontmatter struct {
	ID                string   `yaml:"id"`
	Title             string   `yaml:"title"`
	Excerpt           string   `yaml:"excerpt"`
	Category          string   `yaml:"category"`
	Tags              []string `yaml:"tags"`
	Tier              string   `yaml:"tier"`
	PreviewParagraphs int      `yaml:"previewParagraphs"`
	ReadTime          string   `yaml:"readTime"`
	Date              string   `yaml:"date"`
	VideoURL          string   `yaml:"videoUrl"`
}

// Load reads every file from src and builds the Store. Notes are ordered by file
// name; categories and videos keep their order within their YAML lists.
func Load(ctx context.Context, src Source) (*Store, error) {
	files, err := src.Files(ctx)
	if err != nil {
		return nil, err
	}

	var (
		categories []Category
		videos     []Video
		noteFiles  []File
	)
	for _, f := range files {
		switch {
		case f.Name == categoriesFile:
			if err := yaml.Unmarshal(f.Data, &categories); err != nil {
				return nil, fmt.Errorf("parse %s: %w", f.Name, err)
			}
		case f.Name == videosFile:
			if err := yaml.Unmarshal(f.Data, &videos); err != nil {
				return nil, fmt.Errorf("parse %s: %w", f.Name, err)
			}
		case path.Dir(f.Name) == notesDir && path.Ext(f.Name) == ".md":
			noteFiles = append(noteFiles, f)
		}
	}

	sort.Slice(noteFiles, func(i, j int) bool { return noteFiles[i].Name < noteFiles[j].Name })

	notes := make([]Note, 0, len(noteFiles))
	for _, f := range noteFiles {
		n, err := ParseNote(f.Data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", f.Name, err)
		}
		notes = append(notes, n)
	}

	return New(categories, notes, videos)
}

// ParseNote reads a note file: a YAML frontmatter block between "---" lines
// followed by the raw body.
func ParseNote(data []byte) (Note, error) {
	front, body, ok := splitFrontmatter(data)
	if !ok {
		return Note{}, ErrMalformedFrontmatter
	}

	var fm frontmatter
	if err := yaml.Unmarshal(front, &fm); err != nil {
		return Note{}, fmt.Errorf("%w: %v", ErrMalformedFrontmatter, err)
	}
	if fm.ID == "" {
		return Note{}, fmt.Errorf("%w: missing id", ErrMalformedFrontmatter)
	}

	t, err := tier.Parse(fm.Tier)
	if err != nil {
		return Note{}, fmt.Errorf("note %q: %w", fm.ID, err)
	}

	return Note{
		ID:                    fm.ID,
		Title:                 fm.Title,
		Excerpt:               fm.Excerpt,
		Body:                  string(bytes.TrimSpace(body)),
		Category:              fm.Category,
		Tags:                  fm.Tags,
		Tier:                  t,
		PreviewParagraphLimit: fm.PreviewParagraphs,
		ReadTime:              fm.ReadTime,
		Date:                  fm.Date,
		VideoURL:              fm.VideoURL,
	}, nil
}

// splitFrontmatter cuts data at the first two lines that are exactly "---".
// A "---" inside a value or mid-line does not count as a fence.
func splitFrontmatter(data []byte) (front, body []byte, ok bool) {
	data = bytes.TrimLeft(data, " \t\r\n")
	first, _, found := bytes.Cut(data, []byte("\n"))
	if !found || !isFence(first) {
		return nil, nil, false
	}

	start := len(first) + 1
	for off := start; off < len(data); {
		line, _, _ := bytes.Cut(data[off:], []byte("\n"))
		if isFence(line) {
			end := min(off+len(line)+1, len(data))
			return data[start:off], data[end:], true
		}
		off += len(line) + 1
	}
	return nil, nil, false
}

func isFence(line []byte) bool {
	return string(bytes.TrimRight(line, " \t\r")) == frontmatterFence
}
