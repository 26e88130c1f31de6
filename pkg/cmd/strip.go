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

package cmd

import (
	"context"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/gke-labs/decomment/pkg/config"
	"github.com/gke-labs/decomment/pkg/output"
	"github.com/gke-labs/decomment/pkg/strip"
	"github.com/gke-labs/decomment/pkg/walker"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

// StripFlags are the command line overrides for the config file.
type StripFlags struct {
	CompileJavaScript bool
	OutputFolder      string
	IgnoreFolders     []string
	SkipPatterns      []string
}

func (f *StripFlags) addTo(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.BoolVar(&f.CompileJavaScript, "compile-js", false, "Also process .js files")
	flags.StringVar(&f.OutputFolder, "output", config.DefaultOutputFolder, "Folder to write stripped files to")
	flags.StringSliceVar(&f.IgnoreFolders, "ignore", nil, "Folder names to skip (replaces the configured list)")
	flags.StringSliceVar(&f.SkipPatterns, "skip", nil, "Additional glob patterns to skip")
}

// apply loads the config file and overlays every flag the user set.
func (f *StripFlags) apply(cmd *cobra.Command, rootOpt *RootOptions) (*config.Config, error) {
	cfg, err := loadConfig(rootOpt)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("compile-js") {
		cfg.CompileJavaScript = &f.CompileJavaScript
	}
	if flags.Changed("output") {
		cfg.OutputFolder = f.OutputFolder
	}
	if flags.Changed("ignore") || flags.Changed("skip") {
		if cfg.Ignore == nil {
			cfg.Ignore = &config.IgnoreConfig{}
		}
		if flags.Changed("ignore") {
			cfg.Ignore.Folders = f.IgnoreFolders
		}
		cfg.Ignore.Patterns = append(cfg.Ignore.Patterns, f.SkipPatterns...)
	}
	return cfg, nil
}

// StripOptions holds the configuration for the "strip" command.
type StripOptions struct {
	*RootOptions
	Config *config.Config
	Roots  []string
}

// BuildStripCommand constructs the cobra command for "strip".
func BuildStripCommand(rootOpt *RootOptions) *cobra.Command {
	var flags StripFlags

	cmd := &cobra.Command{
		Use:   "strip [path...]",
		Short: "Strip comments from every matching file under the given paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.apply(cmd, rootOpt)
			if err != nil {
				return err
			}
			opt := StripOptions{
				RootOptions: rootOpt,
				Config:      cfg,
				Roots:       args,
			}
			written, err := RunStrip(cmd.Context(), opt)
			if err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Wrote %d file(s) to %s\n", len(written), outputDir(opt))
			return nil
		},
	}
	flags.addTo(cmd)

	return cmd
}

// RunStrip executes one strip pass and returns the files it wrote.
func RunStrip(ctx context.Context, opt StripOptions) ([]string, error) {
	log := klog.FromContext(ctx)

	walkConfig, err := walker.NewConfig(opt.Config.WalkerOptions())
	if err != nil {
		return nil, err
	}

	dir := outputDir(opt)
	if err := output.EnsureFolder(opt.Fs, dir); err != nil {
		return nil, err
	}

	writer := output.NewWriter(opt.Fs, dir, strip.Strip)
	w := walker.New(opt.Fs, walkConfig)
	if err := w.WalkRoots(ctx, opt.WorkDir, opt.Roots, writer.Process); err != nil {
		return writer.Written(), err
	}

	log.Info("Strip pass complete", "files", len(writer.Written()), "output", dir)
	return writer.Written(), nil
}

// loadConfig reads the config file, resolving a relative path against WorkDir.
func loadConfig(opt *RootOptions) (*config.Config, error) {
	path := opt.ConfigFile
	if path == "" {
		path = config.DefaultFile
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(opt.WorkDir, path)
	}
	return config.Load(path)
}

func outputDir(opt StripOptions) string {
	dir := opt.Config.GetOutputFolder()
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(opt.WorkDir, dir)
	}
	return dir
}
