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

package version

import (
	"fmt"
	"io"
	"runtime/debug"
)

// Info describes the running binary.
type Info struct {
	Module   string
	Version  string
	Revision string
	Modified bool
}

// Read returns version information from the embedded build info.
func Read() (*Info, error) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return nil, fmt.Errorf("failed to read build info")
	}
	return fromBuildInfo(info), nil
}

func fromBuildInfo(info *debug.BuildInfo) *Info {
	v := &Info{
		Module:  info.Main.Path,
		Version: info.Main.Version,
	}
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			v.Revision = setting.Value
		case "vcs.modified":
			v.Modified = setting.Value == "true"
		}
	}
	return v
}

// Print writes v in a human readable form.
func (v *Info) Print(w io.Writer) {
	fmt.Fprintf(w, "Module: %s\n", v.Module)
	if v.Version != "" {
		fmt.Fprintf(w, "Version: %s\n", v.Version)
	}

	if v.Revision != "" {
		fmt.Fprintf(w, "Git SHA: %s", v.Revision)
		if v.Modified {
			fmt.Fprintf(w, " (modified)")
		}
		fmt.Fprintln(w)
	} else {
		fmt.Fprintln(w, "Git SHA: unknown")
	}
}
