package catalog

import "bizsaver/internal/models"

// Entry is one alternative offer in the static catalog.
type Entry struct {
	ID               string              `json:"id"`
	Categoria        models.CostCategory `json:"categoria"`
	Fornitore        string              `json:"fornitore"`
	NomeOfferta      string              `json:"nome_offerta"`
	TipoOfferta      string              `json:"tipo_offerta,omitempty"`
	CostoMensileBase float64             `json:"costo_mensile_base"`
	VincoloMesi      int                 `json:"vincolo_mesi,omitempty"` // 0 = nessun vincolo
	LinkOfferta      string              `json:"link_offerta,omitempty"`
	Note             string              `json:"note,omitempty"`
	TagPredefinito   models.Tag          `json:"tag_predefinito,omitempty"`
}

// Catalog is an immutable offer table, pre-grouped by category at load time.
type Catalog struct {
	entries    []Entry
	byCategory map[models.CostCategory][]Entry
}

// New returns the built-in catalog.
func New() *Catalog {
	return FromEntries(defaultEntries())
}

// FromEntries builds a catalog from an explicit entry list. Insertion order is
// preserved within each category. Used by tests to swap in fixture catalogs.
func FromEntries(entries []Entry) *Catalog {
	c := &Catalog{
		entries:    entries,
		byCategory: make(map[models.CostCategory][]Entry),
	}
	for _, e := range entries {
		c.byCategory[e.Categoria] = append(c.byCategory[e.Categoria], e)
	}
	return c
}

// ByCategory returns the offers for a category in insertion order.
// Unknown categories yield an empty slice.
func (c *Catalog) ByCategory(cat models.CostCategory) []Entry {
	return c.byCategory[cat]
}

// All returns every catalog entry in insertion order.
func (c *Catalog) All() []Entry {
	return c.entries
}

// Len returns the number of offers in the catalog.
func (c *Catalog) Len() int {
	return len(c.entries)
}
