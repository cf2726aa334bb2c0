package grades

import (
	"fmt"
)

// CatalogEntry pairs a semester label with its fixed credit weight.
type CatalogEntry struct {
	Label   string  `yaml:"label" json:"label"`
	Credits float64 `yaml:"credits" json:"credits"`
}

// Catalog is an immutable, ordered mapping from semester label to credits.
type Catalog struct {
	entries []CatalogEntry
	index   map[string]int
}

// DefaultCatalog returns the built-in eight semester catalog.
func DefaultCatalog() *Catalog {
	c, _ := NewCatalog([]CatalogEntry{
		{Label: "id0", Credits: 21.0},
		{Label: "id1", Credits: 18.0},
		{Label: "id2", Credits: 21.5},
		{Label: "id3", Credits: 22.5},
		{Label: "id4", Credits: 21.5},
		{Label: "id5", Credits: 21.5},
		{Label: "id6", Credits: 22.0},
		{Label: "id7", Credits: 12.0},
	})
	return c
}

// NewCatalog copies entries into a catalog, rejecting empty or duplicate
// labels and non-positive credits.
func NewCatalog(entries []CatalogEntry) (*Catalog, error) {
	c := &Catalog{
		entries: make([]CatalogEntry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		if e.Label == "" {
			return nil, &ValidationError{Field: "label", Value: e.Label, Reason: "must not be empty"}
		}
		if _, dup := c.index[e.Label]; dup {
			return nil, &ValidationError{Field: "label", Value: e.Label, Reason: "duplicate catalog entry"}
		}
		if err := ValidateCredits(e.Credits); err != nil {
			return nil, fmt.Errorf("catalog entry %q: %w", e.Label, err)
		}
		c.index[e.Label] = len(c.entries)
		c.entries = append(c.entries, e)
	}
	return c, nil
}

func (c *Catalog) Len() int { return len(c.entries) }

func (c *Catalog) Labels() []string {
	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Label
	}
	return out
}

func (c *Catalog) Entries() []CatalogEntry {
	out := make([]CatalogEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

func (c *Catalog) Credits(label string) (float64, bool) {
	i, ok := c.index[label]
	if !ok {
		return 0, false
	}
	return c.entries[i].Credits, true
}

func (c *Catalog) Contains(label string) bool {
	_, ok := c.index[label]
	return ok
}

// Available returns the catalog labels not present in used, in catalog order.
func (c *Catalog) Available(used []string) []string {
	seen := make(map[string]bool, len(used))
	for _, u := range used {
		seen[u] = true
	}
	var out []string
	for _, e := range c.entries {
		if !seen[e.Label] {
			out = append(out, e.Label)
		}
	}
	return out
}

// Next returns the first available label after last in catalog order,
// wrapping around to the start. It returns "" once every label is used.
func (c *Catalog) Next(last string, used []string) string {
	avail := c.Available(used)
	if len(avail) == 0 {
		return ""
	}
	start := 0
	if i, ok := c.index[last]; ok {
		start = i + 1
	}
	free := make(map[string]bool, len(avail))
	for _, a := range avail {
		free[a] = true
	}
	for n := 0; n < len(c.entries); n++ {
		label := c.entries[(start+n)%len(c.entries)].Label
		if free[label] {
			return label
		}
	}
	return avail[0]
}
