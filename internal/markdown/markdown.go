// Package markdown analyses generated Markdown with goldmark: headings and their
// anchor IDs, links and fenced code blocks.
//
// It is an analysis API; it never re-renders Markdown.
package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

type LinkKind string

const (
	LinkKindInline LinkKind = "inline"
	LinkKindAuto   LinkKind = "auto"
)

type Link struct {
	Kind        LinkKind
	Destination string
}

// Heading is an ATX or setext heading with the anchor ID a GitHub-style renderer assigns.
type Heading struct {
	Level int
	Text  string
	ID    string
	// Duplicate is set when another heading already claimed the same base slug, so
	// the ID carries a numeric suffix.
	Duplicate bool
}

// CodeBlock is a fenced code block and the ID of the closest heading above it.
type CodeBlock struct {
	Language  string
	Content   []byte
	HeadingID string
}

// Outline is the structural summary of a Markdown document.
type Outline struct {
	Headings   []Heading
	Links      []Link
	CodeBlocks []CodeBlock
}

// ParseOutline parses body and collects headings, links and fenced code blocks.
func ParseOutline(body []byte) (*Outline, error) {
	md := goldmark.New(goldmark.WithParserOptions(parser.WithAutoHeadingID()))
	ids := newGitHubIDs()
	root := md.Parser().Parse(text.NewReader(body), parser.WithContext(parser.NewContext(parser.WithIDs(ids))))

	out := &Outline{}
	currentHeading := ""
	err := gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *gmast.Heading:
			h := Heading{Level: node.Level, Text: nodeText(node, body)}
			if raw, ok := node.AttributeString("id"); ok {
				if id, ok := raw.([]byte); ok {
					h.ID = string(id)
				}
			}
			h.Duplicate = ids.isSuffixed(h.ID)
			out.Headings = append(out.Headings, h)
			currentHeading = h.ID
		case *gmast.FencedCodeBlock:
			var buf bytes.Buffer
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				buf.Write(seg.Value(body))
			}
			out.CodeBlocks = append(out.CodeBlocks, CodeBlock{
				Language:  string(node.Language(body)),
				Content:   buf.Bytes(),
				HeadingID: currentHeading,
			})
			return gmast.WalkSkipChildren, nil
		case *gmast.AutoLink:
			out.Links = append(out.Links, Link{Kind: LinkKindAuto, Destination: string(node.URL(body))})
		case *gmast.Link:
			out.Links = append(out.Links, Link{Kind: LinkKindInline, Destination: string(node.Destination)})
		}
		return gmast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// nodeText concatenates the literal text below n.
func nodeText(n gmast.Node, src []byte) string {
	var buf bytes.Buffer
	var walk func(gmast.Node)
	walk = func(node gmast.Node) {
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			switch t := c.(type) {
			case *gmast.Text:
				buf.Write(t.Segment.Value(src))
			case *gmast.String:
				buf.Write(t.Value)
			default:
				walk(c)
			}
		}
	}
	walk(n)
	return buf.String()
}

// HeadingByID returns the heading with the given anchor ID.
func (o *Outline) HeadingByID(id string) (Heading, bool) {
	for _, h := range o.Headings {
		if h.ID == id {
			return h, true
		}
	}
	return Heading{}, false
}

// CodeBlocksUnder returns the fenced code blocks whose closest heading is id.
func (o *Outline) CodeBlocksUnder(id string) []CodeBlock {
	var blocks []CodeBlock
	for _, cb := range o.CodeBlocks {
		if cb.HeadingID == id {
			blocks = append(blocks, cb)
		}
	}
	return blocks
}
