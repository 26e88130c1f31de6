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

// Package output writes transformed files into a flat output folder.
package output

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"k8s.io/klog/v2"
)

// Transform rewrites the contents of a single file.
type Transform func(src string) (string, error)

// EnsureFolder creates dir if it does not exist. The parent must exist.
func EnsureFolder(fs afero.Fs, dir string) error {
	_, err := fs.Stat(dir)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("error checking output folder %s: %w", dir, err)
	}
	if err := fs.Mkdir(dir, 0755); err != nil {
		return fmt.Errorf("error creating output folder %s: %w", dir, err)
	}
	return nil
}

// Writer reads each file it is given, transforms it, and writes the result to
// dir under the file's basename.
type Writer struct {
	fs        afero.Fs
	dir       string
	transform Transform

	written []string
	sources map[string]string
}

// NewWriter creates a Writer. dir should be absolute.
func NewWriter(fs afero.Fs, dir string, transform Transform) *Writer {
	return &Writer{
		fs:        fs,
		dir:       filepath.Clean(dir),
		transform: transform,
		sources:   make(map[string]string),
	}
}

// Process handles a single input file. It has the signature of a walker.FileAction.
func (w *Writer) Process(ctx context.Context, path string) error {
	log := klog.FromContext(ctx)

	if w.isOutput(path) {
		log.V(2).Info("Skipping file in output folder", "file", path)
		return nil
	}
	if filepath.Ext(path) == "" {
		log.V(2).Info("Skipping file without extension", "file", path)
		return nil
	}

	data, err := afero.ReadFile(w.fs, path)
	if err != nil {
		return err
	}

	result, err := w.transform(string(data))
	if err != nil {
		return err
	}

	name := filepath.Base(path)
	outPath := filepath.Join(w.dir, name)
	if prev, ok := w.sources[name]; ok {
		log.Info("Overwriting output written earlier in this run", "output", outPath, "previous", prev, "file", path)
	}

	if err := afero.WriteFile(w.fs, outPath, []byte(result), 0644); err != nil {
		return err
	}
	log.V(1).Info("Wrote file", "file", path, "output", outPath)

	w.sources[name] = path
	w.written = append(w.written, outPath)
	return nil
}

// Written returns the output paths in the order they were written.
func (w *Writer) Written() []string {
	return w.written
}

func (w *Writer) isOutput(path string) bool {
	rel, err := filepath.Rel(w.dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
