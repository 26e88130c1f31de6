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
	"fmt"

	"github.com/gke-labs/decomment/pkg/hotreload"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

// ServeOptions holds the configuration for the "serve" command.
type ServeOptions struct {
	StripOptions
	Addr string
}

// BuildServeCommand constructs the cobra command for "serve".
func BuildServeCommand(rootOpt *RootOptions) *cobra.Command {
	var flags StripFlags
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [path...]",
		Short: "Run the hot reload server, stripping again on every POST /reload",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.apply(cmd, rootOpt)
			if err != nil {
				return err
			}
			opt := ServeOptions{
				StripOptions: StripOptions{
					RootOptions: rootOpt,
					Config:      cfg,
					Roots:       args,
				},
				Addr: addr,
			}
			return RunServe(cmd.Context(), opt)
		},
	}
	flags.addTo(cmd)
	cmd.Flags().StringVar(&addr, "addr", ":8081", "Address to listen on")

	return cmd
}

// RunServe runs one strip pass and then serves hot reload until ctx is done.
func RunServe(ctx context.Context, opt ServeOptions) error {
	if _, err := RunStrip(ctx, opt.StripOptions); err != nil {
		return fmt.Errorf("initial strip failed: %w", err)
	}

	return hotreload.Serve(ctx, opt.Addr, hotreload.NewServer(), reloadFunc(opt.StripOptions))
}

// reloadFunc runs a strip pass and reports its outcome as a broadcast message.
func reloadFunc(opt StripOptions) hotreload.ReloadFunc {
	return func(ctx context.Context) hotreload.Message {
		written, err := RunStrip(ctx, opt)
		if err != nil {
			klog.FromContext(ctx).Error(err, "Strip pass failed")
			return hotreload.Message{Type: "error", Files: written, Error: err.Error()}
		}
		return hotreload.Message{Type: "reload", Files: written}
	}
}
