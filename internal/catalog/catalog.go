package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed pipeline.yaml
var defaultPipeline []byte

// Department is one fixed stage in the manufacturing pipeline.
type Department struct {
	ID       string
	Name     string
	Position int
	Terminal bool
}

// Catalog is the immutable ordered list of departments.
type Catalog struct {
	departments []Department
	byID        map[string]Department
}

type pipelineFile struct {
	Departments []departmentDef `yaml:"departments"`
}

type departmentDef struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// Load reads a pipeline definition from path. An empty path loads the
// built-in jewelry pipeline.
func Load(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Parse(defaultPipeline)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pipeline file: %w", err)
	}
	cat, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("pipeline file %s: %w", path, err)
	}
	return cat, nil
}

// Parse decodes and validates a pipeline definition payload.
func Parse(data []byte) (*Catalog, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("pipeline definition is empty")
	}

	var file pipelineFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode pipeline: %w", err)
	}
	if len(file.Departments) == 0 {
		return nil, fmt.Errorf("pipeline must define at least one department")
	}

	departments := make([]Department, 0, len(file.Departments))
	byID := make(map[string]Department, len(file.Departments))
	for i, def := range file.Departments {
		id := strings.ToLower(strings.TrimSpace(def.ID))
		if id == "" {
			return nil, fmt.Errorf("department %d: id is required", i)
		}
		if strings.ContainsAny(id, " \t") {
			return nil, fmt.Errorf("department %q: id must not contain whitespace", def.ID)
		}
		if _, exists := byID[id]; exists {
			return nil, fmt.Errorf("department %q: duplicate id", id)
		}
		name := strings.TrimSpace(def.Name)
		if name == "" {
			name = id
		}
		dept := Department{
			ID:       id,
			Name:     name,
			Position: i,
			Terminal: i == len(file.Departments)-1,
		}
		departments = append(departments, dept)
		byID[id] = dept
	}

	return &Catalog{departments: departments, byID: byID}, nil
}

// Departments returns the pipeline in order.
func (c *Catalog) Departments() []Department {
	cp := make([]Department, len(c.departments))
	copy(cp, c.departments)
	return cp
}

// Len returns the number of departments in the pipeline.
func (c *Catalog) Len() int {
	return len(c.departments)
}

// First returns the entry department of the pipeline.
func (c *Catalog) First() Department {
	return c.departments[0]
}

// Get returns a department by id.
func (c *Catalog) Get(id string) (Department, bool) {
	dept, ok := c.byID[strings.ToLower(strings.TrimSpace(id))]
	return dept, ok
}

// Exists reports whether a department id is part of the pipeline.
func (c *Catalog) Exists(id string) bool {
	_, ok := c.Get(id)
	return ok
}

// Next returns the pipeline successor of the given department. The second
// return value is false when the department is terminal or unknown.
func (c *Catalog) Next(id string) (Department, bool) {
	dept, ok := c.Get(id)
	if !ok || dept.Terminal {
		return Department{}, false
	}
	return c.departments[dept.Position+1], true
}
