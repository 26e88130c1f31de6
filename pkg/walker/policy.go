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

package walker

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// PrimaryExtension is always included.
	PrimaryExtension = ".ts"
	// SecondaryExtension is included only when CompileJavaScript is set.
	SecondaryExtension = ".js"
)

// Options holds the user-facing settings a Config is built from.
type Options struct {
	CompileJavaScript bool
	IgnoredNames      []string
	IgnorePatterns    []string
}

// InitDefaults populates Options with the default ignored folders.
func (o *Options) InitDefaults() {
	o.IgnoredNames = []string{
		"node_modules",
		".git",
	}
}

// Config is the immutable inclusion policy shared by every call of a walk.
type Config struct {
	compileSecondary bool
	ignoredNames     map[string]bool
	ignore           *IgnoreList
}

// NewConfig builds a Config from opt. It fails if an ignore pattern is malformed.
func NewConfig(opt Options) (*Config, error) {
	ignore, err := NewIgnoreList(opt.IgnorePatterns)
	if err != nil {
		return nil, fmt.Errorf("invalid ignore patterns: %w", err)
	}

	names := make(map[string]bool, len(opt.IgnoredNames))
	for _, name := range opt.IgnoredNames {
		names[name] = true
	}

	return &Config{
		compileSecondary: opt.CompileJavaScript,
		ignoredNames:     names,
		ignore:           ignore,
	}, nil
}

// ShouldInclude reports whether path should be descended into (directories)
// or handed to the action (files).
//
// A path without an extension is assumed to be a directory. The check is on
// the name only, so an extensionless regular file is included too.
func (c *Config) ShouldInclude(path string) bool {
	name := filepath.Base(path)
	ext := filepath.Ext(name)

	if strings.HasPrefix(name, ".") {
		return false
	}
	if c.ignoredNames[name] {
		return false
	}
	if c.ignore.ShouldIgnore(path) {
		return false
	}
	if ext == "" {
		return true
	}

	return ext == PrimaryExtension || (c.compileSecondary && ext == SecondaryExtension)
}
