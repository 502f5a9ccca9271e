// Package bundle serves a game's authored prose. Passages are stored as
// JSON assets and substituted at lookup time, either positionally or
// through named template variables.
package bundle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-fiction/internal/storage"
)

// ErrOutsideBundle is returned when an asset path escapes the bundle
// directory.
var ErrOutsideBundle = fmt.Errorf("asset path outside bundle")

// Passage is a unit of authored text.
type Passage struct {
	Text string `json:"text"`
}

// Validate satisfies storage.ValidatingSpec.
func (p *Passage) Validate() error {
	el := errors.NewErrorList()

	if p.Text == "" {
		el.Add(fmt.Errorf("passage text is required"))
	}

	return el.Err()
}

// Provider serves passages and raw bundle assets to the engine and to
// game impls.
type Provider interface {
	// Passage returns the passage text with positional arguments
	// substituted printf-style. A missing ID yields a visible
	// placeholder rather than an error so broken references surface in
	// the transcript instead of aborting the turn.
	Passage(id string, args ...any) string

	// PassageNamed substitutes named variables using template syntax.
	PassageNamed(id string, vars map[string]any) (string, error)

	// Asset returns the raw contents of a bundle file.
	Asset(path string) ([]byte, error)
}

// FileProvider serves passages from a storage.Storer and assets from the
// bundle directory.
type FileProvider struct {
	passages storage.Storer[*Passage]
	root     string

	mu    sync.Mutex
	cache map[string]*template.Template
}

func NewFileProvider(passages storage.Storer[*Passage], root string) *FileProvider {
	return &FileProvider{
		passages: passages,
		root:     root,
		cache:    map[string]*template.Template{},
	}
}

func (p *FileProvider) Passage(id string, args ...any) string {
	pass := p.passages.Get(id)
	if pass == nil {
		return missing(id)
	}
	if len(args) == 0 {
		return pass.Text
	}
	return fmt.Sprintf(pass.Text, args...)
}

func (p *FileProvider) PassageNamed(id string, vars map[string]any) (string, error) {
	pass := p.passages.Get(id)
	if pass == nil {
		return missing(id), fmt.Errorf("passage %q not found", id)
	}

	tmpl, err := p.template(id, pass.Text)
	if err != nil {
		return missing(id), fmt.Errorf("parsing passage %q: %w", id, err)
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, vars); err != nil {
		return missing(id), fmt.Errorf("rendering passage %q: %w", id, err)
	}
	return sb.String(), nil
}

func (p *FileProvider) Asset(path string) ([]byte, error) {
	full := filepath.Join(p.root, path)
	rel, err := filepath.Rel(p.root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, ErrOutsideBundle
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("reading asset %q: %w", path, err)
	}
	return data, nil
}

func (p *FileProvider) template(id, text string) (*template.Template, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if t, ok := p.cache[id]; ok {
		return t, nil
	}

	t, err := template.New(id).Funcs(sprig.TxtFuncMap()).Parse(text)
	if err != nil {
		return nil, err
	}
	p.cache[id] = t
	return t, nil
}

func missing(id string) string {
	return fmt.Sprintf("[missing passage %q]", id)
}
