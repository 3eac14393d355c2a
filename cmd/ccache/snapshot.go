package main

import (
	"fmt"
	"os"

	"github.com/ppopth/coded-caching/scenario"

	"github.com/spf13/cobra"
)

type snapshotOptions struct {
	output string
	binary bool
}

// NewSnapshotCommand creates the snapshot command.
func NewSnapshotCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &snapshotOptions{}

	cmd := &cobra.Command{
		Use:   "snapshot <scenario.yaml>",
		Short: "Write the cache built from a scenario as JSON or protobuf",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := scenario.Load(args[0])
			if err != nil {
				return fmt.Errorf("load %s: %w", args[0], err)
			}
			c, _, err := sc.Build()
			if err != nil {
				return fmt.Errorf("build %s: %w", args[0], err)
			}

			var data []byte
			if opts.binary {
				data, err = c.MarshalBinary()
			} else {
				data, err = c.MarshalJSON()
			}
			if err != nil {
				return err
			}

			if opts.output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			return os.WriteFile(opts.output, data, 0o644)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&opts.binary, "binary", false, "write protobuf instead of JSON")

	return cmd
}
