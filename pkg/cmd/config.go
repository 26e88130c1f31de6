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

	"github.com/spf13/cobra"
)

// ConfigOptions holds the configuration for the "config" command.
type ConfigOptions struct {
	*RootOptions
}

// BuildConfigCommand constructs the cobra command for "config".
func BuildConfigCommand(rootOpt *RootOptions) *cobra.Command {
	opt := ConfigOptions{
		RootOptions: rootOpt,
	}

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := RunConfig(cmd.Context(), opt)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	return cmd
}

// RunConfig returns the effective configuration rendered as YAML.
func RunConfig(ctx context.Context, opt ConfigOptions) ([]byte, error) {
	cfg, err := loadConfig(opt.RootOptions)
	if err != nil {
		return nil, err
	}
	return cfg.Effective().Marshal()
}
