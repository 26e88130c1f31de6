// Copyright 2026 Google LLC
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

package config

import (
	"fmt"
	"os"

	"github.com/gke-labs/decomment/pkg/walker"
	yamlv3 "gopkg.in/yaml.v3"
	"sigs.k8s.io/yaml"
)

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = ".decomment.yaml"

// DefaultOutputFolder is where stripped files are written.
const DefaultOutputFolder = "output"

// Config is the contents of a .decomment.yaml file.
type Config struct {
	CompileJavaScript *bool         `json:"compileJavaScript,omitempty" yaml:"compileJavaScript,omitempty"`
	OutputFolder      string        `json:"outputFolder,omitempty" yaml:"outputFolder,omitempty"`
	Ignore            *IgnoreConfig `json:"ignore,omitempty" yaml:"ignore,omitempty"`
}

// IgnoreConfig lists the folder names and glob patterns excluded from a walk.
type IgnoreConfig struct {
	Folders  []string `json:"folders,omitempty" yaml:"folders,omitempty"`
	Patterns []string `json:"patterns,omitempty" yaml:"patterns,omitempty"`
}

// Load reads the config file at path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	var config Config
	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading %s: %w", path, err)
		}

		if err := yaml.UnmarshalStrict(data, &config); err != nil {
			return nil, fmt.Errorf("error parsing %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("error checking %s: %w", path, err)
	}

	return &config, nil
}

// IsCompileJavaScriptEnabled returns true if .js files should be stripped too.
func (c *Config) IsCompileJavaScriptEnabled() bool {
	if c.CompileJavaScript != nil {
		return *c.CompileJavaScript
	}
	return false
}

// GetOutputFolder returns the configured output folder, or DefaultOutputFolder.
func (c *Config) GetOutputFolder() string {
	if c.OutputFolder != "" {
		return c.OutputFolder
	}
	return DefaultOutputFolder
}

// GetIgnoredFolders returns the configured folder names, or the defaults if
// none are set.
func (c *Config) GetIgnoredFolders() []string {
	if c.Ignore != nil && c.Ignore.Folders != nil {
		return c.Ignore.Folders
	}
	var opt walker.Options
	opt.InitDefaults()
	return opt.IgnoredNames
}

// GetIgnorePatterns returns the configured glob patterns, if any.
func (c *Config) GetIgnorePatterns() []string {
	if c.Ignore != nil {
		return c.Ignore.Patterns
	}
	return nil
}

// WalkerOptions converts the config into options for the walker.
func (c *Config) WalkerOptions() walker.Options {
	return walker.Options{
		CompileJavaScript: c.IsCompileJavaScriptEnabled(),
		IgnoredNames:      c.GetIgnoredFolders(),
		IgnorePatterns:    c.GetIgnorePatterns(),
	}
}

// Effective returns a copy of c with every default filled in.
func (c *Config) Effective() *Config {
	compileJS := c.IsCompileJavaScriptEnabled()
	return &Config{
		CompileJavaScript: &compileJS,
		OutputFolder:      c.GetOutputFolder(),
		Ignore: &IgnoreConfig{
			Folders:  c.GetIgnoredFolders(),
			Patterns: c.GetIgnorePatterns(),
		},
	}
}

// Marshal renders c as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yamlv3.Marshal(c)
}
