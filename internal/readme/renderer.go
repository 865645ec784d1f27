package readme

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"git.home.luguber.info/inful/hookdoc/internal/config"
	ferrors "git.home.luguber.info/inful/hookdoc/internal/foundation/errors"
	"git.home.luguber.info/inful/hookdoc/internal/hooks"
	"git.home.luguber.info/inful/hookdoc/internal/markdown"
	rerrors "git.home.luguber.info/inful/hookdoc/internal/readme/errors"
)

//go:embed templates/readme.md.tmpl
var defaultTemplate string

// TemplateSourceEmbedded is reported by Renderer.TemplateSource when no override is set.
const TemplateSourceEmbedded = "embedded"

// Link is a named external link rendered as a bullet.
type Link struct {
	Name string
	URL  string
}

// Options controls the static parts of the document.
type Options struct {
	Title         string
	CodeLanguage  string
	NativeBaseURL string
	NativeHooks   []string
	References    []Link
	TemplatePath  string // empty uses the embedded layout
}

// OptionsFromConfig maps the document section of the configuration to renderer options.
func OptionsFromConfig(doc config.DocumentConfig) Options {
	refs := make([]Link, 0, len(doc.References))
	for _, r := range doc.References {
		refs = append(refs, Link{Name: r.Name, URL: r.URL})
	}
	return Options{
		Title:         doc.Title,
		CodeLanguage:  doc.CodeLanguage,
		NativeBaseURL: doc.Native.BaseURL,
		NativeHooks:   append([]string(nil), doc.Native.Hooks...),
		References:    refs,
		TemplatePath:  doc.Template,
	}
}

// HookView is the per-hook data handed to the template.
type HookView struct {
	Identifier string
	Directory  string
	Anchor     string
	Language   string
	Fence      string
	Code       string
}

type templateData struct {
	Title      string
	Native     []Link
	Hooks      []HookView
	References []Link
}

// Renderer turns hook sections into the README markdown.
type Renderer struct {
	opts   Options
	tmpl   *template.Template
	source string
}

// NewRenderer parses the layout template. A configured override that cannot be read or
// parsed is a configuration error.
func NewRenderer(opts Options) (*Renderer, error) {
	body := defaultTemplate
	source := TemplateSourceEmbedded
	if opts.TemplatePath != "" {
		// #nosec G304 -- template path comes from the user's configuration.
		raw, err := os.ReadFile(opts.TemplatePath)
		if err != nil {
			return nil, templateError(err, opts.TemplatePath, "read document template")
		}
		body = string(raw)
		source = opts.TemplatePath
	}

	tmpl, err := template.New("readme").Option("missingkey=error").Parse(body)
	if err != nil {
		return nil, templateError(err, source, "parse document template")
	}
	return &Renderer{opts: opts, tmpl: tmpl, source: source}, nil
}

func templateError(err error, source, message string) error {
	return ferrors.WrapError(fmt.Errorf("%w: %w", rerrors.ErrTemplate, err), ferrors.CategoryConfig, message).
		WithContext("template", source).
		Build()
}

// TemplateSource names the layout in use: TemplateSourceEmbedded or the override path.
func (r *Renderer) TemplateSource() string { return r.source }

// Render executes the layout over sections, in the order given.
func (r *Renderer) Render(sections []hooks.Section) ([]byte, error) {
	data := templateData{
		Title:      r.opts.Title,
		Native:     r.nativeLinks(),
		Hooks:      make([]HookView, 0, len(sections)),
		References: r.opts.References,
	}
	for _, s := range sections {
		data.Hooks = append(data.Hooks, HookView{
			Identifier: s.Identifier,
			Directory:  s.DirectoryName,
			Anchor:     markdown.Slug(s.Identifier),
			Language:   r.opts.CodeLanguage,
			Fence:      fenceFor(s.Source),
			Code:       codeBody(s.Source),
		})
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return nil, ferrors.WrapError(fmt.Errorf("%w: %w", rerrors.ErrTemplate, err), ferrors.CategoryDocs, "render document").
			WithContext("template", r.source).
			Build()
	}
	return buf.Bytes(), nil
}

func (r *Renderer) nativeLinks() []Link {
	links := make([]Link, 0, len(r.opts.NativeHooks))
	for _, name := range r.opts.NativeHooks {
		links = append(links, Link{Name: name, URL: r.opts.NativeBaseURL + "#" + name})
	}
	return links
}

// fenceFor returns a backtick fence longer than any backtick run inside src.
func fenceFor(src []byte) string {
	longest, run := 0, 0
	for _, c := range src {
		if c != '`' {
			run = 0
			continue
		}
		run++
		longest = max(longest, run)
	}
	if longest < 3 {
		return "```"
	}
	return strings.Repeat("`", longest+1)
}

// codeBody returns src as text, terminated by a newline so the closing fence starts
// its own line.
func codeBody(src []byte) string {
	if len(src) == 0 || src[len(src)-1] == '\n' {
		return string(src)
	}
	return string(src) + "\n"
}
