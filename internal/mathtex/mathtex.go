// Package mathtex typesets formula strings into HTML fragments for the client-side
// math renderer, falling back to the escaped source when a formula is malformed.
package mathtex

import (
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/rs/zerolog"
)

var (
	ErrEmptyFormula     = errors.New("empty formula")
	ErrUnbalancedBraces = errors.New("unbalanced braces")
	ErrUnbalancedDelims = errors.New("unbalanced \\left/\\right")
	ErrDanglingEscape   = errors.New("dangling backslash")
)

// Typesetter renders a single formula.
type Typesetter interface {
	Typeset(formula string, display bool) (template.HTML, error)
}

// Rendered is the outcome of Render. When Fallback is set, HTML holds the escaped
// source text rather than typeset markup.
type Rendered struct {
	Source   string        `json:"source"`
	HTML     template.HTML `json:"html"`
	Fallback bool          `json:"fallback,omitempty"`
}

// Markup validates formulas and wraps them in delimiters understood by
// KaTeX/MathJax auto-render on the client.
type Markup struct{}

func (Markup) Typeset(formula string, display bool) (template.HTML, error) {
	if err := Validate(formula); err != nil {
		return "", err
	}

	class, opening, closing := "math math-inline", `\(`, `\)`
	if display {
		class, opening, closing = "math math-display", `\[`, `\]`
	}
	escaped := template.HTMLEscapeString(formula)
	return template.HTML(fmt.Sprintf(`<span class="%s" data-tex="%s">%s%s%s</span>`,
		class, escaped, opening, escaped, closing)), nil
}

// Validate performs the structural checks the client renderer would otherwise fail on.
func Validate(formula string) error {
	if strings.TrimSpace(formula) == "" {
		return ErrEmptyFormula
	}

	depth := 0
	for i := 0; i < len(formula); i++ {
		switch formula[i] {
		case '\\':
			if i == len(formula)-1 {
				return ErrDanglingEscape
			}
			i++ // escaped character, including \{ and \}
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return ErrUnbalancedBraces
			}
		}
	}
	if depth != 0 {
		return ErrUnbalancedBraces
	}

	if countCommand(formula, `\left`) != countCommand(formula, `\right`) {
		return ErrUnbalancedDelims
	}
	return nil
}

// countCommand counts occurrences of a control word that are not a prefix of a longer one.
func countCommand(s, cmd string) int {
	n := 0
	for i := 0; ; {
		j := strings.Index(s[i:], cmd)
		if j < 0 {
			return n
		}
		end := i + j + len(cmd)
		if end >= len(s) || !isLetter(s[end]) {
			n++
		}
		i = end
	}
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// Render typesets formula with ts. Errors and panics from the typesetter do not
// escape; the escaped source is returned instead.
func Render(ts Typesetter, formula string, display bool, log zerolog.Logger) (out Rendered) {
	out.Source = formula
	defer func() {
		if r := recover(); r != nil {
			log.Debug().Interface("panic", r).Str("formula", formula).Msg("typesetter panicked, using source")
			out = fallback(formula)
		}
	}()

	html, err := ts.Typeset(formula, display)
	if err != nil {
		log.Debug().Err(err).Str("formula", formula).Msg("typeset failed, using source")
		return fallback(formula)
	}
	out.HTML = html
	return out
}

func fallback(formula string) Rendered {
	return Rendered{
		Source:   formula,
		HTML:     template.HTML(template.HTMLEscapeString(formula)),
		Fallback: true,
	}
}
