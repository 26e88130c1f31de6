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

	"github.com/bmatcuk/doublestar/v4"
)

// IgnoreList matches paths against a list of glob patterns.
type IgnoreList struct {
	patterns []string
}

// NewIgnoreList creates a new IgnoreList, rejecting malformed patterns.
func NewIgnoreList(patterns []string) (*IgnoreList, error) {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("bad pattern %q", p)
		}
	}
	return &IgnoreList{patterns: patterns}, nil
}

// ShouldIgnore returns true if path matches any pattern.
// A nil IgnoreList ignores nothing.
func (l *IgnoreList) ShouldIgnore(path string) bool {
	if l == nil {
		return false
	}
	for _, p := range l.patterns {
		if match(p, path) {
			return true
		}
	}
	return false
}

func match(pattern, path string) bool {
	path = filepath.ToSlash(path)

	// A pattern without a slash matches the basename at any depth.
	if !strings.Contains(pattern, "/") {
		matched, _ := doublestar.Match(pattern, filepath.Base(path))
		return matched
	}

	// Otherwise it matches the whole path. Patterns are written relative, so
	// "**/generated" matches "/src/generated".
	matched, _ := doublestar.Match(pattern, strings.TrimPrefix(path, "/"))
	return matched
}
