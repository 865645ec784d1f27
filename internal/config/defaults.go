package config

import "fmt"

// Built-in defaults. They reproduce the README layout of the hooks collection.
const (
	DefaultConfigFile     = "hookdoc.yaml"
	DefaultHooksDirectory = "./src/hooks"
	DefaultSourceFile     = "index.ts"
	DefaultOutputPath     = "./README.md"
	DefaultTitle          = "(React) `useHooks`"
	DefaultCodeLanguage   = "tsx"
	DefaultNativeBaseURL  = "https://reactjs.org/docs/hooks-reference.html"
	DefaultWatchDebounce  = "300ms"
)

// DefaultNativeHooks returns the framework primitives listed under "Native".
func DefaultNativeHooks() []string {
	return []string{
		"useState",
		"useEffect",
		"useContext",
		"useReducer",
		"useCallback",
		"useMemo",
		"useRef",
		"useImperativeHandle",
		"useLayoutEffect",
		"useDebugValue",
	}
}

// DefaultReferences returns the links listed under "Reference".
func DefaultReferences() []Reference {
	return []Reference{
		{Name: "use-hooks", URL: "https://usehooks.com/"},
		{Name: "use-hooks-ts", URL: "https://usehooks-ts.com/"},
	}
}

// DefaultApplier applies defaults for one configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// CompositeDefaultApplier runs every domain applier in order.
type CompositeDefaultApplier struct {
	appliers []DefaultApplier
}

// NewDefaultApplier creates a composite applier covering all domains.
func NewDefaultApplier() *CompositeDefaultApplier {
	return &CompositeDefaultApplier{
		appliers: []DefaultApplier{
			&VersionDefaultApplier{},
			&HooksDefaultApplier{},
			&OutputDefaultApplier{},
			&DocumentDefaultApplier{},
			&WatchDefaultApplier{},
		},
	}
}

// ApplyDefaults applies defaults for all configuration domains.
func (c *CompositeDefaultApplier) ApplyDefaults(cfg *Config) error {
	for _, applier := range c.appliers {
		if err := applier.ApplyDefaults(cfg); err != nil {
			return fmt.Errorf("applying defaults for %s: %w", applier.Domain(), err)
		}
	}
	return nil
}

type VersionDefaultApplier struct{}

func (v *VersionDefaultApplier) Domain() string { return "version" }

func (v *VersionDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Version == "" {
		cfg.Version = CurrentVersion
	}
	return nil
}

type HooksDefaultApplier struct{}

func (h *HooksDefaultApplier) Domain() string { return "hooks" }

func (h *HooksDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Hooks.Directory == "" {
		cfg.Hooks.Directory = DefaultHooksDirectory
	}
	if cfg.Hooks.SourceFile == "" {
		cfg.Hooks.SourceFile = DefaultSourceFile
	}
	return nil
}

type OutputDefaultApplier struct{}

func (o *OutputDefaultApplier) Domain() string { return "output" }

func (o *OutputDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Output.Path == "" {
		cfg.Output.Path = DefaultOutputPath
	}
	return nil
}

// DocumentDefaultApplier fills the static README parts. A nil list means "not
// configured"; an explicit empty list in YAML is kept empty.
type DocumentDefaultApplier struct{}

func (d *DocumentDefaultApplier) Domain() string { return "document" }

func (d *DocumentDefaultApplier) ApplyDefaults(cfg *Config) error {
	doc := &cfg.Document
	if doc.Title == "" {
		doc.Title = DefaultTitle
	}
	if doc.CodeLanguage == "" {
		doc.CodeLanguage = DefaultCodeLanguage
	}
	if doc.Native.BaseURL == "" {
		doc.Native.BaseURL = DefaultNativeBaseURL
	}
	if doc.Native.Hooks == nil {
		doc.Native.Hooks = DefaultNativeHooks()
	}
	if doc.References == nil {
		doc.References = DefaultReferences()
	}
	return nil
}

type WatchDefaultApplier struct{}

func (w *WatchDefaultApplier) Domain() string { return "watch" }

func (w *WatchDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Watch.Debounce == "" {
		cfg.Watch.Debounce = DefaultWatchDebounce
	}
	return nil
}
