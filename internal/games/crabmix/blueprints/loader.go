package blueprints

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"slices"
	"sort"
	"strings"
)

//go:embed levels/*.yaml
var builtin embed.FS

// Loader handles loading blueprints from a file tree.
type Loader struct {
	fsys fs.FS
	name string // Shown in errors and Blueprint.Source
}

// NewLoader creates a loader reading from a directory on disk.
func NewLoader(root string) *Loader {
	return &Loader{fsys: os.DirFS(root), name: root}
}

// Builtin returns a loader for the blueprints shipped with the binary.
func Builtin() *Loader {
	sub, err := fs.Sub(builtin, "levels")
	if err != nil {
		panic(fmt.Sprintf("blueprints: embedded levels: %v", err))
	}
	return &Loader{fsys: sub, name: "builtin"}
}

// LoadAll recursively scans and loads all blueprint files.
// Invalid files are skipped. Returns blueprints sorted by ID.
func (l *Loader) LoadAll() ([]Blueprint, error) {
	var all []Blueprint

	err := fs.WalkDir(l.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !slices.Contains(FormatExtensions(), strings.ToLower(path.Ext(p))) {
			return nil
		}

		bp, err := l.LoadFile(p)
		if err != nil {
			// Skip invalid files
			return nil
		}
		all = append(all, bp)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", l.name, err)
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].ID < all[j].ID
	})
	return all, nil
}

// LoadFile loads a single blueprint file relative to the loader root.
func (l *Loader) LoadFile(p string) (Blueprint, error) {
	data, err := fs.ReadFile(l.fsys, p)
	if err != nil {
		return Blueprint{}, fmt.Errorf("reading file %s: %w", p, err)
	}
	bp, err := ParseYAML(data)
	if err != nil {
		return Blueprint{}, fmt.Errorf("parsing file %s: %w", p, err)
	}
	bp.Source = l.name + ":" + p
	return bp, nil
}

// LoadByID loads a specific blueprint by ID.
func (l *Loader) LoadByID(id string) (Blueprint, error) {
	all, err := l.LoadAll()
	if err != nil {
		return Blueprint{}, err
	}
	for _, bp := range all {
		if bp.ID == id {
			return bp, nil
		}
	}
	return Blueprint{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// ListIDs returns all blueprint IDs in sorted order.
func (l *Loader) ListIDs() ([]string, error) {
	all, err := l.LoadAll()
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(all))
	for i, bp := range all {
		ids[i] = bp.ID
	}
	return ids, nil
}

// Catalog merges several loaders. Later loaders override earlier ones on
// duplicate IDs, so a user directory can replace a builtin blueprint.
type Catalog struct {
	loaders []*Loader
}

// NewCatalog creates a catalog over the builtin blueprints plus any extra
// directories that exist.
func NewCatalog(dirs ...string) *Catalog {
	c := &Catalog{loaders: []*Loader{Builtin()}}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			c.loaders = append(c.loaders, NewLoader(dir))
		}
	}
	return c
}

// All returns every blueprint sorted by ID.
func (c *Catalog) All() ([]Blueprint, error) {
	byID := make(map[string]Blueprint)
	for _, l := range c.loaders {
		all, err := l.LoadAll()
		if err != nil {
			return nil, err
		}
		for _, bp := range all {
			byID[bp.ID] = bp
		}
	}

	out := make([]Blueprint, 0, len(byID))
	for _, bp := range byID {
		out = append(out, bp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Find returns the blueprint with the given ID.
func (c *Catalog) Find(id string) (Blueprint, error) {
	all, err := c.All()
	if err != nil {
		return Blueprint{}, err
	}
	for _, bp := range all {
		if bp.ID == id {
			return bp, nil
		}
	}
	return Blueprint{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}
