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
	"flag"
	"fmt"
	"os"

	"github.com/gke-labs/decomment/pkg/config"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

// RootOptions holds the configuration for the root command.
type RootOptions struct {
	WorkDir    string
	ConfigFile string

	// Fs is the filesystem commands read from and write to.
	Fs afero.Fs
}

// BuildRootCommand constructs the root cobra command.
func BuildRootCommand() *cobra.Command {
	opt := RootOptions{
		Fs: afero.NewOsFs(),
	}

	cmd := &cobra.Command{
		Use:           "decomment",
		Short:         "decomment strips comments from TypeScript and JavaScript sources",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opt.WorkDir == "" {
				wd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("error getting working directory: %w", err)
				}
				opt.WorkDir = wd
			}
			return nil
		},
	}

	fs := cmd.PersistentFlags()
	fs.StringVar(&opt.ConfigFile, "config", config.DefaultFile, "Path to the config file")
	klogFlags := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(klogFlags)
	fs.AddGoFlagSet(klogFlags)

	cmd.AddCommand(BuildStripCommand(&opt))
	cmd.AddCommand(BuildServeCommand(&opt))
	cmd.AddCommand(BuildConfigCommand(&opt))
	cmd.AddCommand(BuildVersionCommand(&opt))

	return cmd
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	rootCmd := BuildRootCommand()
	return rootCmd.ExecuteContext(ctx)
}
