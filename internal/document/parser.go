package document

import (
	"regexp"
	"strings"
)

const mathFence = "$$"

var (
	inlineMath  = regexp.MustCompile(`\$([^$]+)\$`)
	ordinalItem = regexp.MustCompile(`^\d+\.\s`)
)

type mode int

const (
	scanning mode = iota
	inMathBlock
)

// state is threaded through the lines by value; step never mutates its input.
type state struct {
	mode  mode
	acc   []string
	count int
	limit int
}

// Parse converts a note body into blocks. A paragraphLimit <= 0 renders everything;
// a positive limit stops at the first blank line once that many paragraph-equivalent
// blocks have been produced.
func Parse(body string, paragraphLimit int) []Block {
	st := state{limit: paragraphLimit}
	blocks := []Block{}

	for _, line := range strings.Split(strings.TrimSpace(body), "\n") {
		next, out, stop := step(st, line)
		if stop {
			return blocks
		}
		blocks = append(blocks, out...)
		st = next
	}
	tail, _ := finish(st)
	return append(blocks, tail...)
}

// Preview parses the bounded preview for a body, or returns nil when limit is unset.
func Preview(body string, limit int) []Block {
	if limit <= 0 {
		return nil
	}
	return Parse(body, limit)
}

func step(st state, line string) (state, []Block, bool) {
	trimmed := strings.TrimSpace(line)

	if st.limit > 0 && st.count >= st.limit && trimmed == "" {
		return st, nil, true
	}

	if strings.HasPrefix(trimmed, mathFence) {
		if st.mode == inMathBlock {
			formula := strings.TrimSpace(strings.Join(st.acc, "\n"))
			return state{mode: scanning, count: st.count + 1, limit: st.limit}, []Block{MathDisplay(formula)}, false
		}
		return state{mode: inMathBlock, count: st.count, limit: st.limit}, nil, false
	}

	if st.mode == inMathBlock {
		acc := make([]string, len(st.acc), len(st.acc)+1)
		copy(acc, st.acc)
		st.acc = append(acc, line)
		return st, nil, false
	}

	if inlineMath.MatchString(trimmed) {
		st.count++
		return st, []Block{Paragraph(splitInline(trimmed)...)}, false
	}

	switch {
	case strings.HasPrefix(trimmed, "# "):
		return st, []Block{Heading(1, trimmed[2:])}, false
	case strings.HasPrefix(trimmed, "## "):
		return st, []Block{Heading(2, trimmed[3:])}, false
	case strings.HasPrefix(trimmed, "### "):
		return st, []Block{Heading(3, trimmed[4:])}, false
	}

	if strings.HasPrefix(trimmed, "- ") {
		st.count++
		return st, []Block{ListItem(false, trimmed[2:])}, false
	}

	if loc := ordinalItem.FindStringIndex(trimmed); loc != nil {
		st.count++
		return st, []Block{ListItem(true, trimmed[loc[1]:])}, false
	}

	if trimmed == "" {
		return st, nil, false
	}

	st.count++
	return st, []Block{Paragraph(PlainText(trimmed))}, false
}

// finish is the end-of-input transition. A display block that was opened but never
// closed emits nothing; its accumulated lines are returned as dropped.
func finish(st state) (emitted []Block, dropped []string) {
	if st.mode == inMathBlock {
		return nil, st.acc
	}
	return nil, nil
}

func splitInline(line string) []Segment {
	var segments []Segment
	last := 0
	for _, m := range inlineMath.FindAllStringSubmatchIndex(line, -1) {
		if m[0] > last {
			segments = append(segments, PlainText(line[last:m[0]]))
		}
		segments = append(segments, MathSpan(line[m[2]:m[3]]))
		last = m[1]
	}
	if last < len(line) {
		segments = append(segments, PlainText(line[last:]))
	}
	return segments
}
