// Package layout reads the YAML file that declares how a table is shown:
// which columns, their widths and flags, grouping, and navigation.
package layout

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bekirdag/gridview/internal/grid"
	"github.com/bekirdag/gridview/internal/source"
)

// Column declares one grid column.
type Column struct {
	Key             string `yaml:"key"`
	Name            string `yaml:"name,omitempty"`
	Width           string `yaml:"width,omitempty"`
	MinWidth        int    `yaml:"min_width,omitempty"`
	MaxWidth        int    `yaml:"max_width,omitempty"`
	Frozen          bool   `yaml:"frozen,omitempty"`
	Editable        *bool  `yaml:"editable,omitempty"`
	Sortable        *bool  `yaml:"sortable,omitempty"`
	Resizable       *bool  `yaml:"resizable,omitempty"`
	DescendingFirst bool   `yaml:"descending_first,omitempty"`
	EditOnClick     bool   `yaml:"edit_on_click,omitempty"`
	// Type is "text" (the default) or "number".
	Type string `yaml:"type,omitempty"`
}

// Sort is the initial sort.
type Sort struct {
	Column    string `yaml:"column"`
	Direction string `yaml:"direction,omitempty"`
}

// Config is the whole layout file.
type Config struct {
	Columns         []Column `yaml:"columns,omitempty"`
	GroupBy         []string `yaml:"group_by,omitempty"`
	Expanded        []string `yaml:"expanded,omitempty"`
	Navigation      string   `yaml:"navigation,omitempty"`
	RowSelection    bool     `yaml:"row_selection,omitempty"`
	SelectFirstCell bool     `yaml:"select_first_cell,omitempty"`
	MinColumnWidth  int      `yaml:"min_column_width,omitempty"`
	Sortable        *bool    `yaml:"sortable,omitempty"`
	Resizable       *bool    `yaml:"resizable,omitempty"`
	Sort            *Sort    `yaml:"sort,omitempty"`
	Theme           string   `yaml:"theme,omitempty"`
}

// DefaultMinColumnWidth is the minimum width in terminal cells when the file
// sets none.
const DefaultMinColumnWidth = 4

// DefaultPath is <user config dir>/gridview/layout.yaml.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "gridview", "layout.yaml")
}

// Load reads path. A missing file yields an empty config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("layout %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes cfg to path, creating the directory.
func Save(cfg *Config, path string) error {
	if cfg == nil {
		cfg = &Config{}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// NavigationMode parses the navigation field.
func (c *Config) NavigationMode() (grid.CellNavigationMode, error) {
	return grid.ParseCellNavigationMode(c.Navigation)
}

// MinWidth returns the configured minimum column width.
func (c *Config) MinWidth() int {
	if c.MinColumnWidth > 0 {
		return c.MinColumnWidth
	}
	return DefaultMinColumnWidth
}

// Defaults returns the column defaults: sortable and resizable unless the
// file says otherwise.
func (c *Config) Defaults() grid.DefaultColumnOptions[*source.Record] {
	return grid.DefaultColumnOptions[*source.Record]{
		Sortable:  c.Sortable == nil || *c.Sortable,
		Resizable: c.Resizable == nil || *c.Resizable,
	}
}

// ExpandedIDs returns the initially expanded group ids as a set.
func (c *Config) ExpandedIDs() map[string]bool {
	if len(c.Expanded) == 0 {
		return nil
	}
	out := make(map[string]bool, len(c.Expanded))
	for _, id := range c.Expanded {
		out[id] = true
	}
	return out
}

// InitialSort returns the configured sort, if any.
func (c *Config) InitialSort() (string, grid.SortDirection, error) {
	if c.Sort == nil || c.Sort.Column == "" {
		return "", grid.SortNone, nil
	}
	dir := grid.SortAsc
	if strings.TrimSpace(c.Sort.Direction) != "" {
		parsed, err := grid.ParseSortDirection(c.Sort.Direction)
		if err != nil {
			return "", grid.SortNone, fmt.Errorf("sort: %w", err)
		}
		dir = parsed
	}
	return c.Sort.Column, dir, nil
}

// Matches reports whether every declared column exists in table, i.e.
// whether the file was written for it.
func (c *Config) Matches(table *source.Table) bool {
	for _, d := range c.Columns {
		if !table.HasColumn(d.Key) {
			return false
		}
	}
	return true
}

// GridColumns builds the grid columns for table. With no declared columns
// every table column is shown as editable text. Declared columns must exist
// in the table. A row selection column is prepended when enabled.
func (c *Config) GridColumns(table *source.Table) ([]grid.Column[*source.Record], error) {
	decls := c.Columns
	if len(decls) == 0 {
		for _, key := range table.Columns {
			decls = append(decls, Column{Key: key})
		}
	}

	var cols []grid.Column[*source.Record]
	if c.RowSelection {
		cols = append(cols, grid.Column[*source.Record]{
			Key:       grid.SelectColumnKey,
			Width:     grid.Px(3),
			MinWidth:  3,
			MaxWidth:  3,
			Frozen:    true,
			Sortable:  grid.Bool(false),
			Resizable: grid.Bool(false),
		})
	}
	seen := make(map[string]bool, len(decls))
	for _, d := range decls {
		if d.Key == "" {
			return nil, errors.New("column without a key")
		}
		if !table.HasColumn(d.Key) {
			return nil, fmt.Errorf("column %q: not in table %s", d.Key, table.Name)
		}
		if seen[d.Key] {
			return nil, fmt.Errorf("column %q declared twice", d.Key)
		}
		seen[d.Key] = true
		col, err := d.gridColumn()
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	return cols, nil
}

func (d Column) gridColumn() (grid.Column[*source.Record], error) {
	name := d.Name
	if name == "" {
		name = d.Key
	}
	col := grid.Column[*source.Record]{
		Key:                 d.Key,
		Name:                name,
		MinWidth:            d.MinWidth,
		MaxWidth:            d.MaxWidth,
		Frozen:              d.Frozen,
		Editable:            d.Editable,
		Sortable:            d.Sortable,
		Resizable:           d.Resizable,
		SortDescendingFirst: d.DescendingFirst,
		EditorOptions:       grid.EditorOptions{EditOnClick: d.EditOnClick},
	}
	if d.Width != "" {
		col.Width = grid.ParseWidth(d.Width)
		if !col.Width.IsSet() {
			return col, fmt.Errorf("column %q: bad width %q", d.Key, d.Width)
		}
	}
	switch strings.ToLower(d.Type) {
	case "", "text":
		col.Editor = source.TextEditor{}
	case "number":
		col.Editor = source.NumberEditor{}
	default:
		return col, fmt.Errorf("column %q: unknown type %q", d.Key, d.Type)
	}
	return col, nil
}
