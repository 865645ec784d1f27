package markdown

import (
	"fmt"
	"strings"
	"unicode"

	gmast "github.com/yuin/goldmark/ast"
)

// Slug returns the anchor a GitHub-style renderer derives from heading text:
// lower-cased, letters/numbers/marks/'-'/'_' kept, spaces turned into '-', everything
// else dropped.
func Slug(heading string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(heading) {
		switch {
		case unicode.IsLetter(r), unicode.IsNumber(r), unicode.IsMark(r), r == '-', r == '_':
			b.WriteRune(unicode.ToLower(r))
		case r == ' ':
			b.WriteByte('-')
		}
	}
	return b.String()
}

// githubIDs implements goldmark's parser.IDs with Slug and "-N" de-duplication.
type githubIDs struct {
	seen     map[string]int
	suffixed map[string]bool
}

func newGitHubIDs() *githubIDs {
	return &githubIDs{seen: map[string]int{}, suffixed: map[string]bool{}}
}

func (g *githubIDs) Generate(value []byte, _ gmast.NodeKind) []byte {
	base := Slug(string(value))
	id := base
	if n, ok := g.seen[base]; ok {
		for {
			n++
			id = fmt.Sprintf("%s-%d", base, n)
			if _, taken := g.seen[id]; !taken {
				break
			}
		}
		g.seen[base] = n
		g.suffixed[id] = true
	}
	g.seen[id] = 0
	return []byte(id)
}

func (g *githubIDs) Put(value []byte) {
	g.seen[string(value)] = 0
}

func (g *githubIDs) isSuffixed(id string) bool { return g.suffixed[id] }

// AnchorProblem describes an in-document link that does not land where intended.
type AnchorProblem struct {
	Anchor string
	Reason string
}

func (p AnchorProblem) String() string { return "#" + p.Anchor + ": " + p.Reason }

// VerifyAnchors checks that every "#fragment" link resolves to a heading ID and that
// no heading was forced onto a suffixed ID by a collision.
func (o *Outline) VerifyAnchors() []AnchorProblem {
	ids := make(map[string]struct{}, len(o.Headings))
	var problems []AnchorProblem
	for _, h := range o.Headings {
		ids[h.ID] = struct{}{}
		if h.Duplicate {
			problems = append(problems, AnchorProblem{Anchor: h.ID, Reason: fmt.Sprintf("heading %q collides with an earlier heading", h.Text)})
		}
	}
	for _, l := range o.Links {
		frag, ok := strings.CutPrefix(l.Destination, "#")
		if !ok {
			continue
		}
		if _, found := ids[frag]; !found {
			problems = append(problems, AnchorProblem{Anchor: frag, Reason: "no heading with this anchor"})
		}
	}
	return problems
}
