package schema

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/firesidehq/driftwood/internal/dwerr"
)

// tableFile is the YAML shape of a schema file:
//
//	table: widgets
//	columns:
//	  - name: id
//	    type: bigint
//	    primary_key: true
//	  - name: name
//	    type: string
type tableFile struct {
	Table   string       `yaml:"table"`
	Columns []columnFile `yaml:"columns"`
}

type columnFile struct {
	Name       string `yaml:"name"`
	Type       string `yaml:"type"`
	Nullable   bool   `yaml:"nullable"`
	Default    any    `yaml:"default"`
	PrimaryKey bool   `yaml:"primary_key"`
}

// LoadFile parses a single YAML schema file into a validated table descriptor.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, dwerr.Wrap(dwerr.ErrDeclInvalid, err, "failed to read schema file").
			With("file", path)
	}

	var tf tableFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, dwerr.Wrap(dwerr.ErrDeclInvalid, err, "failed to parse schema file").
			With("file", path)
	}
	if tf.Table == "" {
		// Fall back to the file name, e.g. widgets.yaml -> widgets.
		base := filepath.Base(path)
		tf.Table = strings.TrimSuffix(base, filepath.Ext(base))
	}

	cols := make([]*Column, 0, len(tf.Columns))
	for _, cf := range tf.Columns {
		t, err := ParseType(cf.Type)
		if err != nil {
			return nil, dwerr.Wrap(dwerr.ErrDeclInvalid, err, "invalid column type").
				WithTable(tf.Table).
				WithColumn(cf.Name).
				With("file", path)
		}
		col := &Column{
			Name:       cf.Name,
			Type:       t,
			Nullable:   cf.Nullable,
			PrimaryKey: cf.PrimaryKey,
		}
		if cf.Default != nil {
			v, err := normalizeDefault(t, cf.Default)
			if err != nil {
				return nil, dwerr.Wrap(dwerr.ErrDeclInvalid, err, "default value does not match column type").
					WithTable(tf.Table).
					WithColumn(cf.Name).
					With("file", path)
			}
			col.Default = v
		}
		cols = append(cols, col)
	}

	table, err := New(tf.Table, cols...)
	if err != nil {
		return nil, dwerr.Wrap(dwerr.ErrDeclInvalid, err, "invalid table declaration").
			With("file", path)
	}
	return table, nil
}

// LoadDir parses every *.yaml / *.yml file in dir, sorted by file name so
// declaration order is deterministic run-to-run.
func LoadDir(dir string) ([]*Table, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, dwerr.Wrap(dwerr.ErrDeclInvalid, err, "failed to read schemas directory").
			With("dir", dir)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext == ".yaml" || ext == ".yml" {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)

	tables := make([]*Table, 0, len(paths))
	for _, p := range paths {
		t, err := LoadFile(p)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, nil
}
