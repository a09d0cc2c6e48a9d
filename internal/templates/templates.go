// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package templates manages quick-log symptom presets: a built-in set
// shipped with the binary plus optional user-defined presets from a YAML
// file. Presets are seeded into the store so tools read one source.
package templates

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/svan-b/myhealthyagent/internal/database"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Template is a named group of symptoms logged together
type Template struct {
	Name            string   `yaml:"name"`
	Symptoms        []string `yaml:"symptoms"`
	DefaultSeverity int      `yaml:"default_severity"`
}

type templateFile struct {
	Templates []Template `yaml:"templates"`
}

// Defaults returns the built-in template set
func Defaults() ([]Template, error) {
	return parse(defaultsYAML)
}

// LoadFile reads user-defined templates from a YAML file
func LoadFile(path string) ([]Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read templates file: %w", err)
	}
	return parse(data)
}

func parse(data []byte) ([]Template, error) {
	var file templateFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	for i, t := range file.Templates {
		if t.Name == "" {
			return nil, fmt.Errorf("template %d has no name", i)
		}
		if len(t.Symptoms) == 0 {
			return nil, fmt.Errorf("template %q has no symptoms", t.Name)
		}
		if t.DefaultSeverity < 0 || t.DefaultSeverity > 10 {
			return nil, fmt.Errorf("template %q default severity %d out of range", t.Name, t.DefaultSeverity)
		}
	}
	return file.Templates, nil
}

// Seed upserts the built-in templates plus any user file into the store.
// Existing templates with the same name are replaced; a missing user file
// is not an error.
func Seed(ctx context.Context, store *database.Store, userFile string) error {
	all, err := Defaults()
	if err != nil {
		return err
	}

	if userFile != "" {
		user, err := LoadFile(userFile)
		if err == nil {
			all = append(all, user...)
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}

	for _, t := range all {
		record := &database.SymptomTemplate{
			Name:            t.Name,
			Symptoms:        t.Symptoms,
			DefaultSeverity: t.DefaultSeverity,
		}
		if err := store.UpsertTemplate(ctx, record); err != nil {
			return fmt.Errorf("failed to seed template %q: %w", t.Name, err)
		}
	}
	return nil
}
