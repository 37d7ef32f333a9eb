package catalog

import (
	"cmp"
	"context"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/skosovsky/unifai"
	"github.com/skosovsky/unifai/model"
)

// Catalog resolves models by provider and id.
type Catalog interface {
	GetModel(ctx context.Context, provider, id string) (*model.Model, error)
}

// Filter narrows List results. Zero fields match everything.
type Filter struct {
	Provider   string
	Capability model.Capability
}

func (f Filter) match(m *model.Model) bool {
	if f.Provider != "" && m.Provider != f.Provider {
		return false
	}
	return f.Capability == "" || m.SupportsCapability(f.Capability)
}

// ValidateName checks that a provider or model id is safe for URLs, paths and cache keys.
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, "/\\:") || strings.Contains(name, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

type key struct {
	provider string
	id       string
}

// Static is an immutable in-memory catalog. Safe for concurrent use.
type Static struct {
	models map[key]*model.Model
}

var _ Catalog = (*Static)(nil)

// NewStatic returns a catalog of models. Duplicate provider/id pairs are rejected.
func NewStatic(models ...model.Model) (*Static, error) {
	s := &Static{models: make(map[key]*model.Model, len(models))}
	for _, m := range models {
		k := key{provider: m.Provider, id: m.ID}
		if _, dup := s.models[k]; dup {
			return nil, fmt.Errorf("%w: %s/%s", ErrDuplicateModel, m.Provider, m.ID)
		}
		s.models[k] = &m
	}
	return s, nil
}

// GetModel returns a copy of the model.
func (s *Static) GetModel(ctx context.Context, provider, id string) (*model.Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m, ok := s.models[key{provider: provider, id: id}]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", unifai.ErrModelNotFound, provider, id)
	}
	cp := *m
	return &cp, nil
}

// List returns matching models sorted by provider, then id.
func (s *Static) List(f Filter) []model.Model {
	var out []model.Model
	for _, m := range s.models {
		if f.match(m) {
			out = append(out, *m)
		}
	}
	slices.SortFunc(out, func(a, b model.Model) int {
		return cmp.Or(cmp.Compare(a.Provider, b.Provider), cmp.Compare(a.ID, b.ID))
	})
	return out
}

// Len returns the number of models.
func (s *Static) Len() int { return len(s.models) }

// FromFS parses every .yaml/.yml file under root in parallel and returns a Static
// catalog of all their models.
func FromFS(ctx context.Context, fsys fs.FS, root string) (*Static, error) {
	var files []string
	err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if ext := path.Ext(p); ext == ".yaml" || ext == ".yml" {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("catalog: walk %s: %w", root, err)
	}
	slices.Sort(files)

	parsed := make([][]model.Model, len(files)) // one slot per file keeps file order
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			models, err := model.ParseFS(fsys, file)
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			parsed[i] = models
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return NewStatic(slices.Concat(parsed...)...)
}
