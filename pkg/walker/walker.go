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
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"k8s.io/klog/v2"
)

// FileAction is called once for every file that passes the inclusion policy.
type FileAction func(ctx context.Context, path string) error

// Node is a filesystem entry under consideration.
//
// A root node comes from a status query on a caller-supplied path and has Path
// set. A child node comes from listing its parent directory and has only Name.
type Node struct {
	Path string
	Name string
	Dir  bool
}

// RootNode returns the node for a path the caller supplied directly.
func RootNode(path string, isDir bool) Node {
	return Node{Path: path, Dir: isDir}
}

// AbsPath returns the path of n, joining Name onto parent for child nodes.
func (n Node) AbsPath(parent string) string {
	if n.Path != "" {
		return n.Path
	}
	return filepath.Join(parent, n.Name)
}

// Walker applies a Config to a directory tree on a filesystem.
type Walker struct {
	fs     afero.Fs
	config *Config
}

// New creates a Walker reading from fs.
func New(fs afero.Fs, config *Config) *Walker {
	return &Walker{fs: fs, config: config}
}

// WalkRoots walks each of roots in order. Relative roots are resolved against
// cwd, and cwd itself is walked when roots is empty.
func (w *Walker) WalkRoots(ctx context.Context, cwd string, roots []string, action FileAction) error {
	if len(roots) == 0 {
		roots = []string{cwd}
	}

	for _, root := range roots {
		path := root
		if !filepath.IsAbs(path) {
			path = filepath.Join(cwd, path)
		}

		info, err := w.fs.Stat(path)
		if err != nil {
			return fmt.Errorf("error reading %s: %w", path, err)
		}

		if err := w.Walk(ctx, RootNode(path, info.IsDir()), "", action); err != nil {
			return err
		}
	}
	return nil
}

// Walk visits node and, if it is an included directory, everything below it.
// Excluded directories are never listed, so their whole subtree is skipped.
// The first listing or action error stops the walk and is returned.
func (w *Walker) Walk(ctx context.Context, node Node, parent string, action FileAction) error {
	path := node.AbsPath(parent)

	if !w.config.ShouldInclude(path) {
		klog.FromContext(ctx).V(4).Info("Skipping path", "path", path)
		return nil
	}

	if !node.Dir {
		if err := action(ctx, path); err != nil {
			return fmt.Errorf("error processing %s: %w", path, err)
		}
		return nil
	}

	children, err := w.list(path)
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := w.Walk(ctx, child, path, action); err != nil {
			return err
		}
	}
	return nil
}

// list returns the children of dir in the order the filesystem reports them.
func (w *Walker) list(dir string) ([]Node, error) {
	f, err := w.fs.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("error opening directory %s: %w", dir, err)
	}
	defer f.Close()

	infos, err := f.Readdir(-1)
	if err != nil {
		return nil, fmt.Errorf("error listing directory %s: %w", dir, err)
	}

	nodes := make([]Node, 0, len(infos))
	for _, info := range infos {
		nodes = append(nodes, Node{Name: info.Name(), Dir: info.IsDir()})
	}
	return nodes, nil
}
