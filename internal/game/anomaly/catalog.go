// Package anomaly defines the archetype catalog of monsters and the generator
// that turns an archetype into a level-scaled encounter with rewards.
package anomaly

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/phoenix/internal/game/region"
	"github.com/cory-johannsen/phoenix/internal/game/stat"
)

//go:embed catalog.yaml
var builtinCatalog []byte

// Type identifies an anomaly archetype. It is the key stored in a bestiary.
type Type string

// Definition is an immutable archetype loaded from YAML.
type Definition struct {
	Type         Type          `yaml:"type"`
	Name         string        `yaml:"name"`
	Image        string        `yaml:"image"`
	Health       int           `yaml:"health"`
	Mana         int           `yaml:"mana"`
	Strength     int           `yaml:"strength"`
	Agility      int           `yaml:"agility"`
	Intelligence int           `yaml:"intelligence"`
	Regions      []region.Type `yaml:"regions"`
	// Script names the behaviour script driving this archetype in battle.
	// Empty means the default attack behaviour.
	Script string `yaml:"script"`
}

// BaseHealth returns the unscaled health pool.
func (d Definition) BaseHealth() stat.Stat { return stat.New(d.Health) }

// BaseMana returns the unscaled mana pool.
func (d Definition) BaseMana() stat.Stat { return stat.New(d.Mana) }

// SpawnsIn reports whether the archetype can be encountered in t.
func (d Definition) SpawnsIn(t region.Type) bool {
	for _, r := range d.Regions {
		if r == t {
			return true
		}
	}
	return false
}

// Validate checks that the definition satisfies basic invariants.
//
// Postcondition: Returns nil iff Type and Name are non-empty, every stat is >= 1,
// and Regions is non-empty and holds only known region types.
func (d *Definition) Validate() error {
	if d.Type == "" {
		return fmt.Errorf("anomaly definition: type must not be empty")
	}
	if d.Name == "" {
		return fmt.Errorf("anomaly definition %q: name must not be empty", d.Type)
	}
	for _, f := range []struct {
		name string
		v    int
	}{
		{"health", d.Health},
		{"mana", d.Mana},
		{"strength", d.Strength},
		{"agility", d.Agility},
		{"intelligence", d.Intelligence},
	} {
		if f.v < 1 {
			return fmt.Errorf("anomaly definition %q: %s must be >= 1", d.Type, f.name)
		}
	}
	if len(d.Regions) == 0 {
		return fmt.Errorf("anomaly definition %q: regions must not be empty", d.Type)
	}
	for _, r := range d.Regions {
		if _, err := region.ParseType(string(r)); err != nil {
			return fmt.Errorf("anomaly definition %q: %w", d.Type, err)
		}
	}
	return nil
}

type catalogFile struct {
	Anomalies []Definition `yaml:"anomalies"`
}

// Catalog is a read-only set of archetypes keyed by type.
type Catalog struct {
	defs   []Definition
	byType map[Type]Definition
}

// NewCatalog validates defs and indexes them by type.
//
// Postcondition: Returns an error if any definition is invalid, a type is
// duplicated, or defs is empty.
func NewCatalog(defs []Definition) (*Catalog, error) {
	if len(defs) == 0 {
		return nil, errors.New("anomaly catalog: no definitions")
	}
	c := &Catalog{byType: make(map[Type]Definition, len(defs))}
	for i := range defs {
		d := defs[i]
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byType[d.Type]; dup {
			return nil, fmt.Errorf("anomaly catalog: duplicate type %q", d.Type)
		}
		d.Regions = append([]region.Type(nil), d.Regions...)
		c.byType[d.Type] = d
		c.defs = append(c.defs, d)
	}
	return c, nil
}

// LoadCatalogFromBytes parses a catalog document from raw YAML bytes.
func LoadCatalogFromBytes(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing anomaly catalog YAML: %w", err)
	}
	return NewCatalog(f.Anomalies)
}

// LoadCatalog reads every *.yaml file in dir and merges their anomalies into
// one catalog.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns the merged catalog or the first read, parse or
// validation error.
func LoadCatalog(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading anomaly dir %q: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	var defs []Definition
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var f catalogFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		defs = append(defs, f.Anomalies...)
	}
	return NewCatalog(defs)
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// DefaultCatalog returns the built-in catalog, parsed once per process.
// It panics if the embedded document is invalid.
func DefaultCatalog() *Catalog {
	defaultOnce.Do(func() {
		c, err := LoadCatalogFromBytes(builtinCatalog)
		if err != nil {
			panic(fmt.Sprintf("anomaly: built-in catalog: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Lookup returns the definition for t.
func (c *Catalog) Lookup(t Type) (Definition, bool) {
	d, ok := c.byType[t]
	return d, ok
}

// All returns every definition in catalog order.
func (c *Catalog) All() []Definition {
	return append([]Definition(nil), c.defs...)
}

// ForRegion returns the definitions that spawn in t, in catalog order.
func (c *Catalog) ForRegion(t region.Type) []Definition {
	var out []Definition
	for _, d := range c.defs {
		if d.SpawnsIn(t) {
			out = append(out, d)
		}
	}
	return out
}

// Covers returns an error naming every type in types that has no archetype.
func (c *Catalog) Covers(types ...region.Type) error {
	var missing []string
	for _, t := range types {
		if len(c.ForRegion(t)) == 0 {
			missing = append(missing, string(t))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrNoValidArchetype, strings.Join(missing, ", "))
	}
	return nil
}
