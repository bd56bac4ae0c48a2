package pricing

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

const DefaultVersion = "2024-11"

// Package is one purchasable credit bundle. Price is in THB.
type Package struct {
	ID      int             `json:"id"`
	Label   string          `json:"label"`
	Price   decimal.Decimal `json:"price"`
	Credits int64           `json:"credits"`
}

type PackageConfig struct {
	ID      int    `mapstructure:"id"`
	Label   string `mapstructure:"label"`
	Price   string `mapstructure:"price"`
	Credits int64  `mapstructure:"credits"`
}

type Config struct {
	Version string          `mapstructure:"version"`
	Items   []PackageConfig `mapstructure:"items"`
}

// Catalog is the single price list shared by charge creation, crediting,
// status checks and the top-up client. It is immutable once built.
type Catalog struct {
	version  string
	packages []Package
}

func DefaultPackages() []Package {
	return []Package{
		{ID: 1, Label: "STARTER PACK", Price: decimal.NewFromInt(50), Credits: 55},
		{ID: 2, Label: "BOOSTER PACK", Price: decimal.NewFromInt(100), Credits: 125},
		{ID: 3, Label: "ELITE PACK", Price: decimal.NewFromInt(200), Credits: 270},
	}
}

func Default() *Catalog {
	c, _ := New(DefaultVersion, DefaultPackages())
	return c
}

func New(version string, packages []Package) (*Catalog, error) {
	if len(packages) == 0 {
		return nil, fmt.Errorf("catalog %q has no packages", version)
	}

	ids := make(map[int]struct{}, len(packages))
	prices := make(map[string]struct{}, len(packages))
	sorted := make([]Package, 0, len(packages))

	for _, p := range packages {
		if !p.Price.IsPositive() {
			return nil, fmt.Errorf("package %d: price must be positive", p.ID)
		}
		if p.Credits <= 0 {
			return nil, fmt.Errorf("package %d: credits must be positive", p.ID)
		}
		if _, ok := ids[p.ID]; ok {
			return nil, fmt.Errorf("package %d: duplicate id", p.ID)
		}

		key := p.Price.String()
		if _, ok := prices[key]; ok {
			return nil, fmt.Errorf("package %d: duplicate price %s", p.ID, key)
		}

		ids[p.ID] = struct{}{}
		prices[key] = struct{}{}
		sorted = append(sorted, p)
	}

	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Price.LessThan(sorted[j].Price) })

	return &Catalog{version: version, packages: sorted}, nil
}

// FromConfig builds the catalog from configuration, falling back to the
// built-in packages when none are configured.
func FromConfig(cfg Config) (*Catalog, error) {
	version := cfg.Version
	if version == "" {
		version = DefaultVersion
	}

	if len(cfg.Items) == 0 {
		return New(version, DefaultPackages())
	}

	packages := make([]Package, 0, len(cfg.Items))
	for _, item := range cfg.Items {
		price, err := decimal.NewFromString(item.Price)
		if err != nil {
			return nil, fmt.Errorf("package %d: invalid price %q: %w", item.ID, item.Price, err)
		}

		packages = append(packages, Package{ID: item.ID, Label: item.Label, Price: price, Credits: item.Credits})
	}

	return New(version, packages)
}

func (c *Catalog) Version() string {
	return c.version
}

func (c *Catalog) Packages() []Package {
	out := make([]Package, len(c.packages))
	copy(out, c.packages)
	return out
}

// CreditsFor maps a paid amount to the credits it buys. Amounts that do not
// exactly match a package price buy nothing.
func (c *Catalog) CreditsFor(amount decimal.Decimal) (int64, bool) {
	p, ok := c.ByPrice(amount)
	if !ok {
		return 0, false
	}

	return p.Credits, true
}

func (c *Catalog) ByPrice(amount decimal.Decimal) (Package, bool) {
	for _, p := range c.packages {
		if p.Price.Equal(amount) {
			return p, true
		}
	}

	return Package{}, false
}

func (c *Catalog) ByID(id int) (Package, bool) {
	for _, p := range c.packages {
		if p.ID == id {
			return p, true
		}
	}

	return Package{}, false
}
