// Copyright 2025 the NMdata authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package editor

import (
	"context"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/rs/zerolog"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"

	"github.com/andersone1/NMdata/pkg/ctl"
)

// 🔌 SpecParser is the interface for edit-spec file parsers
type SpecParser interface {
	// 📝 Parse parses an EditSpec from bytes
	Parse(ctx context.Context, data []byte) (EditSpec, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ specParsers is a list of available parsers
	specParsers []SpecParser
)

// 📝 RegisterSpecParser registers a parser
func RegisterSpecParser(p SpecParser) {
	specParsers = append(specParsers, p)
}

// 🎯 GetSpecParser returns a parser that can handle the given file
func GetSpecParser(filename string) SpecParser {
	for _, p := range specParsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🎯 LoadSpec loads an ordered EditSpec from a file
func LoadSpec(ctx context.Context, path string) (EditSpec, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading edit spec")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading spec file: %w", err)
	}

	p := GetSpecParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	spec, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing spec: %w", err)
	}

	if err := spec.Validate(); err != nil {
		return nil, errors.Errorf("validating spec: %w", err)
	}

	return spec, nil
}

// 🔧 YAMLSpecParser implements SpecParser for YAML files
type YAMLSpecParser struct{}

func init() {
	RegisterSpecParser(&YAMLSpecParser{})
}

func (p *YAMLSpecParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml")
}

// yamlSpecFile mirrors the on-disk YAML shape. The list form keeps the
// edits ordered, which the fold depends on.
type yamlSpecFile struct {
	Edits []yamlEdit `yaml:"edits"`
}

type yamlEdit struct {
	Section string `yaml:"section"`
	Text    string `yaml:"text"`
}

func (p *YAMLSpecParser) Parse(ctx context.Context, data []byte) (EditSpec, error) {
	var file yamlSpecFile
	decoder := yaml.NewDecoder(strings.NewReader(string(data)))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}

	spec := make(EditSpec, 0, len(file.Edits))
	for _, e := range file.Edits {
		spec = append(spec, SectionEdit{
			Section: e.Section,
			Lines:   ctl.ParseText(e.Text),
		})
	}
	return spec, nil
}

// 🔧 HCLSpecParser implements SpecParser for HCL files
type HCLSpecParser struct{}

func init() {
	RegisterSpecParser(&HCLSpecParser{})
}

func (p *HCLSpecParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// hclSpecFile mirrors the on-disk HCL shape: one labeled edit block per
// section, in file order.
type hclSpecFile struct {
	Edits []hclEdit `hcl:"edit,block"`
}

type hclEdit struct {
	Section string `hcl:"section,label"`
	Text    string `hcl:"text"`
}

func (p *HCLSpecParser) Parse(ctx context.Context, data []byte) (EditSpec, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "editspec.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	var file hclSpecFile
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &file)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	spec := make(EditSpec, 0, len(file.Edits))
	for _, e := range file.Edits {
		spec = append(spec, SectionEdit{
			Section: e.Section,
			Lines:   ctl.ParseText(e.Text),
		})
	}
	return spec, nil
}
