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
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spf13/afero"
)

// newTestFs creates a filesystem containing the given files (and their parent
// directories).
func newTestFs(t *testing.T, files ...string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, f := range files {
		if err := fs.MkdirAll(filepath.Dir(f), 0755); err != nil {
			t.Fatal(err)
		}
		if err := afero.WriteFile(fs, f, []byte("let x = 1;\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return fs
}

// recorder is a FileAction that remembers every path it was called with.
type recorder struct {
	paths []string
}

func (r *recorder) action(_ context.Context, path string) error {
	r.paths = append(r.paths, path)
	return nil
}

func walkRoots(t *testing.T, fs afero.Fs, compileJS bool, roots ...string) []string {
	t.Helper()
	w := New(fs, newTestConfig(t, compileJS))
	var r recorder
	if err := w.WalkRoots(context.Background(), "/", roots, r.action); err != nil {
		t.Fatalf("WalkRoots failed: %v", err)
	}
	return r.paths
}

func TestWalk_SkipsIgnoredAndHidden(t *testing.T) {
	fs := newTestFs(t,
		"/proj/a.ts",
		"/proj/node_modules/x.ts",
		"/proj/.git/config",
	)

	got := walkRoots(t, fs, false, "/proj")
	want := []string{"/proj/a.ts"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestWalk_SecondaryExtension(t *testing.T) {
	fs := newTestFs(t, "/proj/b.js")

	if got := walkRoots(t, fs, false, "/proj"); len(got) != 0 {
		t.Errorf("expected no actions without compileJS, got %v", got)
	}

	got := walkRoots(t, fs, true, "/proj")
	want := []string{"/proj/b.js"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestWalk_MultipleRoots(t *testing.T) {
	fs := newTestFs(t,
		"/a/file1.ts",
		"/b/file2.ts",
	)

	got := walkRoots(t, fs, false, "/a/file1.ts", "/b")
	want := []string{"/a/file1.ts", "/b/file2.ts"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestWalk_RelativeRootsAndDefault(t *testing.T) {
	fs := newTestFs(t,
		"/work/src/a.ts",
		"/work/b.ts",
	)
	w := New(fs, newTestConfig(t, false))

	var relative recorder
	if err := w.WalkRoots(context.Background(), "/work", []string{"src"}, relative.action); err != nil {
		t.Fatalf("WalkRoots failed: %v", err)
	}
	if want := []string{"/work/src/a.ts"}; !reflect.DeepEqual(relative.paths, want) {
		t.Errorf("relative root: got %v, want %v", relative.paths, want)
	}

	var all recorder
	if err := w.WalkRoots(context.Background(), "/work", nil, all.action); err != nil {
		t.Fatalf("WalkRoots failed: %v", err)
	}
	if want := []string{"/work/b.ts", "/work/src/a.ts"}; !reflect.DeepEqual(all.paths, want) {
		t.Errorf("default root: got %v, want %v", all.paths, want)
	}
}

func TestWalk_PrunesExcludedDirectory(t *testing.T) {
	fs := newTestFs(t,
		"/proj/node_modules/pkg/index.ts",
		"/proj/node_modules/pkg/lib/util.ts",
		"/proj/.cache/a.ts",
		"/proj/src/ok.ts",
	)

	got := walkRoots(t, fs, true, "/proj")
	want := []string{"/proj/src/ok.ts"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestWalk_Idempotent(t *testing.T) {
	fs := newTestFs(t,
		"/proj/a.ts",
		"/proj/lib/b.ts",
		"/proj/lib/c.js",
		"/proj/lib/deep/d.ts",
		"/proj/z.ts",
	)

	first := walkRoots(t, fs, true, "/proj")
	second := walkRoots(t, fs, true, "/proj")
	if !reflect.DeepEqual(first, second) {
		t.Errorf("walks differ: %v vs %v", first, second)
	}
	if len(first) != 5 {
		t.Errorf("expected 5 files, got %v", first)
	}
}

func TestWalk_ExtensionlessFileIsOffered(t *testing.T) {
	fs := newTestFs(t, "/proj/Makefile")

	got := walkRoots(t, fs, false, "/proj")
	want := []string{"/proj/Makefile"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestWalk_ExcludedRoot(t *testing.T) {
	fs := newTestFs(t, "/proj/node_modules/x.ts")

	if got := walkRoots(t, fs, false, "/proj/node_modules"); len(got) != 0 {
		t.Errorf("expected no actions for an excluded root, got %v", got)
	}
}

func TestWalk_MissingRoot(t *testing.T) {
	w := New(afero.NewMemMapFs(), newTestConfig(t, false))
	var r recorder
	err := w.WalkRoots(context.Background(), "/", []string{"/missing"}, r.action)
	if err == nil {
		t.Fatal("expected error for missing root")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestWalk_ActionErrorAbortsWalk(t *testing.T) {
	fs := newTestFs(t,
		"/proj/a.ts",
		"/proj/b.ts",
		"/proj/c.ts",
	)
	w := New(fs, newTestConfig(t, false))

	errBad := errors.New("bad file")
	var calls []string
	action := func(_ context.Context, path string) error {
		calls = append(calls, path)
		if path == "/proj/b.ts" {
			return errBad
		}
		return nil
	}

	err := w.WalkRoots(context.Background(), "/", []string{"/proj"}, action)
	if !errors.Is(err, errBad) {
		t.Fatalf("expected action error, got %v", err)
	}
	if want := []string{"/proj/a.ts", "/proj/b.ts"}; !reflect.DeepEqual(calls, want) {
		t.Errorf("got calls %v, want %v", calls, want)
	}
}

func TestWalk_ChildNode(t *testing.T) {
	fs := newTestFs(t, "/proj/src/a.ts")
	w := New(fs, newTestConfig(t, false))

	var r recorder
	if err := w.Walk(context.Background(), Node{Name: "src", Dir: true}, "/proj", r.action); err != nil {
		t.Fatalf("Walk failed: %v", err)
	}
	if want := []string{"/proj/src/a.ts"}; !reflect.DeepEqual(r.paths, want) {
		t.Errorf("got %v, want %v", r.paths, want)
	}
}

func TestWalk_OsFs(t *testing.T) {
	tmpDir := t.TempDir()
	for _, f := range []string{"a.ts", "sub/b.ts", "node_modules/c.ts", "sub/d.md"} {
		path := filepath.Join(tmpDir, f)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	w := New(afero.NewOsFs(), newTestConfig(t, false))
	seen := map[string]bool{}
	err := w.WalkRoots(context.Background(), tmpDir, nil, func(_ context.Context, path string) error {
		seen[path] = true
		return nil
	})
	if err != nil {
		t.Fatalf("WalkRoots failed: %v", err)
	}

	want := map[string]bool{
		filepath.Join(tmpDir, "a.ts"):     true,
		filepath.Join(tmpDir, "sub/b.ts"): true,
	}
	if !reflect.DeepEqual(seen, want) {
		t.Errorf("got %v, want %v", seen, want)
	}
}
