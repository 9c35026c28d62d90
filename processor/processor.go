/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package processor

import (
	"bytes"
	"fmt"
	"go/format"
	"os"
	"text/template"

	"gopkg.in/yaml.v3"
)

// Entity describes one entity in a manifest.
type Entity struct {
	// Name is the stable logical entity name.
	Name string `yaml:"name"`
	// Type is the Go type name in the target package; defaults to Name.
	Type string `yaml:"type"`
	// Subentities lists entity names stored under this entity's collection.
	Subentities []string `yaml:"subentities"`
	// IndexMap holds DynamoDB key templates, e.g. PK: "ARTICLE#{ID}".
	IndexMap map[string]string `yaml:"indexMap"`
}

// GoType returns the Go type name registrations are generated against.
func (e Entity) GoType() string {
	if e.Type != "" {
		return e.Type
	}
	return e.Name
}

// Manifest is the parsed entity manifest.
type Manifest struct {
	// Package is the Go package the generated file belongs to.
	Package  string   `yaml:"package"`
	Entities []Entity `yaml:"entities"`
}

// ParseManifest decodes and validates an entity manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	if m.Package == "" {
		return nil, fmt.Errorf("manifest is missing a package name")
	}
	if len(m.Entities) == 0 {
		return nil, fmt.Errorf("manifest declares no entities")
	}

	seen := make(map[string]bool, len(m.Entities))
	for _, e := range m.Entities {
		if e.Name == "" {
			return nil, fmt.Errorf("manifest contains an entity without a name")
		}
		if seen[e.Name] {
			return nil, fmt.Errorf("entity %q declared twice", e.Name)
		}
		seen[e.Name] = true
	}
	return &m, nil
}

var fileTemplate = template.Must(template.New("registrations").Parse(
	`// Code generated by entitymap; DO NOT EDIT.

package {{ .Package }}

import (
	"github.com/suparena/objectgraph/registry"
)

func init() {
{{- range $e := .Entities }}
	registry.RegisterEntity({{ printf "%q" $e.Name }}, func() any { return &{{ $e.GoType }}{} })
{{- if $e.IndexMap }}
	registry.RegisterIndexMap({{ printf "%q" $e.Name }}, map[string]string{
{{- range $k, $v := $e.IndexMap }}
		{{ printf "%q" $k }}: {{ printf "%q" $v }},
{{- end }}
	})
{{- end }}
{{- range $child := $e.Subentities }}
	registry.RegisterSubentity({{ printf "%q" $e.Name }}, {{ printf "%q" $child }})
{{- end }}
{{- end }}
}
`))

// Generate renders the registration file for a manifest, gofmt-formatted.
func Generate(m *Manifest) ([]byte, error) {
	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, m); err != nil {
		return nil, fmt.Errorf("failed to render registrations: %w", err)
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("generated code does not format: %w", err)
	}
	return src, nil
}

// Run loads a manifest file and writes the generated registration file.
func Run(manifestPath, outPath string) error {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return fmt.Errorf("failed to read manifest: %w", err)
	}

	m, err := ParseManifest(data)
	if err != nil {
		return err
	}

	src, err := Generate(m)
	if err != nil {
		return err
	}

	if err := os.WriteFile(outPath, src, 0o644); err != nil {
		return fmt.Errorf("failed to write generated file: %w", err)
	}
	return nil
}
