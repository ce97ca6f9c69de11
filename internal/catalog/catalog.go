package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed schema/assets.yaml
var defaultDefinition []byte

var ErrInvalidCatalog = errors.New("catalog: invalid definition")

type Column struct {
	Name        string `yaml:"name" json:"name"`
	Type        string `yaml:"type" json:"type"`
	Description string `yaml:"description" json:"description"`
}

type Table struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Columns     []Column `yaml:"columns" json:"columns"`
}

type Relationship struct {
	FromTable  string `yaml:"from_table" json:"from_table"`
	ToTable    string `yaml:"to_table" json:"to_table"`
	ForeignKey string `yaml:"foreign_key" json:"foreign_key"`
}

type definition struct {
	Tables        []Table        `yaml:"tables"`
	Relationships []Relationship `yaml:"relationships"`
}

// Catalog is the immutable description of the tables the SQL generator may
// reference. It is safe for concurrent use.
type Catalog struct {
	tables        []Table
	relationships []Relationship
	index         map[string]int
}

func New(tables []Table, relationships []Relationship) (*Catalog, error) {
	if len(tables) == 0 {
		return nil, fmt.Errorf("%w: at least one table is required", ErrInvalidCatalog)
	}

	c := &Catalog{
		tables:        make([]Table, 0, len(tables)),
		relationships: make([]Relationship, 0, len(relationships)),
		index:         make(map[string]int, len(tables)),
	}
	for _, table := range tables {
		name := strings.TrimSpace(table.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: table name is required", ErrInvalidCatalog)
		}
		if _, exists := c.index[name]; exists {
			return nil, fmt.Errorf("%w: duplicate table %q", ErrInvalidCatalog, name)
		}
		if len(table.Columns) == 0 {
			return nil, fmt.Errorf("%w: table %q has no columns", ErrInvalidCatalog, name)
		}
		columns := make([]Column, 0, len(table.Columns))
		seen := make(map[string]struct{}, len(table.Columns))
		for _, column := range table.Columns {
			columnName := strings.TrimSpace(column.Name)
			if columnName == "" {
				return nil, fmt.Errorf("%w: table %q has a column without a name", ErrInvalidCatalog, name)
			}
			if _, dup := seen[columnName]; dup {
				return nil, fmt.Errorf("%w: table %q has duplicate column %q", ErrInvalidCatalog, name, columnName)
			}
			seen[columnName] = struct{}{}
			columns = append(columns, Column{
				Name:        columnName,
				Type:        strings.TrimSpace(column.Type),
				Description: strings.TrimSpace(column.Description),
			})
		}
		c.index[name] = len(c.tables)
		c.tables = append(c.tables, Table{
			Name:        name,
			Description: strings.TrimSpace(table.Description),
			Columns:     columns,
		})
	}

	for _, rel := range relationships {
		from, ok := c.index[rel.FromTable]
		if !ok {
			return nil, fmt.Errorf("%w: relationship references unknown table %q", ErrInvalidCatalog, rel.FromTable)
		}
		if _, ok := c.index[rel.ToTable]; !ok {
			return nil, fmt.Errorf("%w: relationship references unknown table %q", ErrInvalidCatalog, rel.ToTable)
		}
		if !c.tables[from].hasColumn(rel.ForeignKey) {
			return nil, fmt.Errorf("%w: table %q has no column %q", ErrInvalidCatalog, rel.FromTable, rel.ForeignKey)
		}
		c.relationships = append(c.relationships, rel)
	}
	return c, nil
}

// Default returns the built-in asset-management catalog.
func Default() (*Catalog, error) {
	return Parse(defaultDefinition)
}

func LoadFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file %q: %w", path, err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Catalog, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)

	var def definition
	if err := decoder.Decode(&def); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidCatalog, err)
	}
	return New(def.Tables, def.Relationships)
}

func (c *Catalog) Tables() []Table {
	out := make([]Table, len(c.tables))
	for i, table := range c.tables {
		out[i] = table
		out[i].Columns = append([]Column(nil), table.Columns...)
	}
	return out
}

func (c *Catalog) Relationships() []Relationship {
	return append([]Relationship(nil), c.relationships...)
}

func (c *Catalog) TableNames() []string {
	names := make([]string, len(c.tables))
	for i, table := range c.tables {
		names[i] = table.Name
	}
	return names
}

func (c *Catalog) HasTable(name string) bool {
	_, ok := c.index[name]
	return ok
}

func (c *Catalog) Table(name string) (Table, bool) {
	i, ok := c.index[name]
	if !ok {
		return Table{}, false
	}
	table := c.tables[i]
	table.Columns = append([]Column(nil), table.Columns...)
	return table, true
}

// Summarize renders the catalog for a prompt. With no subset every table is
// listed compactly; with a subset only those tables are listed, with column
// descriptions and the relationships among them. Output follows catalog order.
func (c *Catalog) Summarize(subset []string) string {
	if len(subset) == 0 {
		return c.summarizeAll()
	}

	wanted := make(map[string]struct{}, len(subset))
	for _, name := range subset {
		wanted[name] = struct{}{}
	}

	var b strings.Builder
	for _, table := range c.tables {
		if _, ok := wanted[table.Name]; !ok {
			continue
		}
		fmt.Fprintf(&b, "\nTable: %s\n", table.Name)
		fmt.Fprintf(&b, "Description: %s\n", table.Description)
		b.WriteString("Columns:\n")
		for _, column := range table.Columns {
			fmt.Fprintf(&b, "  - %s (%s): %s\n", column.Name, column.Type, column.Description)
		}
	}

	var joins []string
	for _, rel := range c.relationships {
		_, fromOK := wanted[rel.FromTable]
		_, toOK := wanted[rel.ToTable]
		if fromOK && toOK {
			joins = append(joins, fmt.Sprintf("  - %s.%s -> %s", rel.FromTable, rel.ForeignKey, rel.ToTable))
		}
	}
	if len(joins) > 0 {
		b.WriteString("\nRelationships:\n")
		b.WriteString(strings.Join(joins, "\n"))
		b.WriteString("\n")
	}
	return b.String()
}

func (c *Catalog) summarizeAll() string {
	var b strings.Builder
	for _, table := range c.tables {
		fmt.Fprintf(&b, "\nTable: %s\n", table.Name)
		fmt.Fprintf(&b, "Description: %s\n", table.Description)
		columns := make([]string, 0, len(table.Columns))
		for _, column := range table.Columns {
			columns = append(columns, fmt.Sprintf("%s (%s)", column.Name, column.Type))
		}
		fmt.Fprintf(&b, "Columns: %s\n", strings.Join(columns, ", "))
	}
	if len(c.relationships) > 0 {
		b.WriteString("\nRelationships:\n")
		for _, rel := range c.relationships {
			fmt.Fprintf(&b, "  - %s.%s -> %s\n", rel.FromTable, rel.ForeignKey, rel.ToTable)
		}
	}
	return b.String()
}

func (t Table) hasColumn(name string) bool {
	for _, column := range t.Columns {
		if column.Name == name {
			return true
		}
	}
	return false
}
