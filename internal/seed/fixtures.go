// Package seed loads sandbox tables and assignment fixtures, either from a
// local directory or from an object-storage bucket shared between
// environments.
package seed

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/ciphersql/sandbox/internal/model"
)

// AssignmentFixture is the YAML shape of one assignment in a fixture file.
type AssignmentFixture struct {
	ID              string   `yaml:"id"`
	Title           string   `yaml:"title"`
	Description     string   `yaml:"description"`
	Question        string   `yaml:"question"`
	Difficulty      string   `yaml:"difficulty"`
	Tags            []string `yaml:"tags"`
	Tables          []string `yaml:"tables"`
	ExpectedColumns []string `yaml:"expected_columns"`
	Active          *bool    `yaml:"active"`
	Order           int      `yaml:"order"`
}

type fixtureFile struct {
	Assignments []AssignmentFixture `yaml:"assignments"`
}

// LoadAssignments parses an assignment fixture file.
func LoadAssignments(path string) ([]model.Assignment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}

	var file fixtureFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}

	out := make([]model.Assignment, 0, len(file.Assignments))
	for i, f := range file.Assignments {
		if f.Title == "" {
			return nil, fmt.Errorf("fixture %d: title is required", i)
		}
		difficulty := f.Difficulty
		if difficulty == "" {
			difficulty = "beginner"
		}
		active := true
		if f.Active != nil {
			active = *f.Active
		}
		out = append(out, model.Assignment{
			ID:              f.ID,
			Title:           f.Title,
			Description:     f.Description,
			Question:        f.Question,
			Difficulty:      difficulty,
			Tags:            f.Tags,
			Tables:          f.Tables,
			ExpectedColumns: f.ExpectedColumns,
			IsActive:        active,
			Order:           f.Order,
		})
	}
	return out, nil
}

// Scripts lists the SQL scripts in dir, sorted by name so numbered files
// apply in order.
func Scripts(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read seed dir: %w", err)
	}
	var scripts []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".sql" {
			continue
		}
		scripts = append(scripts, filepath.Join(dir, e.Name()))
	}
	sort.Strings(scripts)
	return scripts, nil
}
