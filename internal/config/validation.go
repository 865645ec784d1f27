package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	ferrors "git.home.luguber.info/inful/hookdoc/internal/foundation/errors"
)

const minWatchInterval = time.Second

// ValidateConfig checks every configuration domain and returns the first problem found.
func ValidateConfig(cfg *Config) error {
	v := &configurationValidator{config: cfg}
	return v.validate()
}

type configurationValidator struct {
	config *Config
}

func (cv *configurationValidator) validate() error {
	for _, step := range []func() error{
		cv.validateHooks,
		cv.validateOutput,
		cv.validateDocument,
		cv.validateWatch,
		cv.validateMetrics,
	} {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func invalid(field, format string, args ...any) error {
	return ferrors.ValidationError(fmt.Sprintf("%s: %s", field, fmt.Sprintf(format, args...))).
		WithContext("field", field).
		Build()
}

// isBareName reports whether name is a single path element.
func isBareName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}

func (cv *configurationValidator) validateHooks() error {
	h := cv.config.Hooks
	if strings.TrimSpace(h.Directory) == "" {
		return invalid("hooks.directory", "must not be empty")
	}
	if !isBareName(h.SourceFile) {
		return invalid("hooks.source_file", "%q must be a file name, not a path", h.SourceFile)
	}
	for _, name := range h.Exclude {
		if !isBareName(name) {
			return invalid("hooks.exclude", "%q must be a directory name", name)
		}
	}
	return nil
}

func (cv *configurationValidator) validateOutput() error {
	p := cv.config.Output.Path
	if strings.TrimSpace(p) == "" {
		return invalid("output.path", "must not be empty")
	}
	if info, err := os.Stat(p); err == nil && info.IsDir() {
		return invalid("output.path", "%s is a directory", p)
	}
	absOut, errOut := filepath.Abs(p)
	absHooks, errHooks := filepath.Abs(cv.config.Hooks.Directory)
	if errOut == nil && errHooks == nil && absOut == absHooks {
		return invalid("output.path", "must differ from hooks.directory")
	}
	return nil
}

func (cv *configurationValidator) validateDocument() error {
	d := cv.config.Document
	if strings.ContainsAny(d.Title, "\r\n") {
		return invalid("document.title", "must be a single line")
	}
	if strings.ContainsAny(d.CodeLanguage, " \t\r\n`~") {
		return invalid("document.code_language", "%q is not a valid info string", d.CodeLanguage)
	}
	if d.Template != "" {
		if _, err := os.Stat(d.Template); err != nil {
			return invalid("document.template", "%v", err)
		}
	}
	if err := validateAbsoluteURL(d.Native.BaseURL); err != nil {
		return invalid("document.native.base_url", "%v", err)
	}
	for i, name := range d.Native.Hooks {
		if strings.TrimSpace(name) == "" {
			return invalid(fmt.Sprintf("document.native.hooks[%d]", i), "must not be empty")
		}
	}
	for i, ref := range d.References {
		field := fmt.Sprintf("document.references[%d]", i)
		if strings.TrimSpace(ref.Name) == "" {
			return invalid(field+".name", "must not be empty")
		}
		if err := validateAbsoluteURL(ref.URL); err != nil {
			return invalid(field+".url", "%v", err)
		}
	}
	return nil
}

func (cv *configurationValidator) validateWatch() error {
	w := cv.config.Watch
	d, err := time.ParseDuration(w.Debounce)
	if err != nil {
		return invalid("watch.debounce", "%v", err)
	}
	if d <= 0 {
		return invalid("watch.debounce", "must be positive")
	}
	if w.Interval != "" {
		iv, err := time.ParseDuration(w.Interval)
		if err != nil {
			return invalid("watch.interval", "%v", err)
		}
		if iv < minWatchInterval {
			return invalid("watch.interval", "must be at least %s", minWatchInterval)
		}
	}
	return nil
}

func (cv *configurationValidator) validateMetrics() error {
	if addr := cv.config.Metrics.Listen; addr != "" {
		if _, _, err := net.SplitHostPort(addr); err != nil {
			return invalid("metrics.listen", "%v", err)
		}
	}
	return nil
}

func validateAbsoluteURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%q is not an absolute URL", raw)
	}
	return nil
}
