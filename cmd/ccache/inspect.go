package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/ppopth/coded-caching/cache"

	"github.com/spf13/cobra"
)

type inspectOptions struct {
	binary bool
}

type inspectReport struct {
	Capacity int           `json:"capacity"`
	Used     int           `json:"used"`
	Entries  []string      `json:"entries"`
	Bases    []cache.Basis `json:"bases"`
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &inspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect <snapshot>",
		Short: "Show the contents and per-size bases of a cache snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			c, err := cache.New(0)
			if err != nil {
				return err
			}
			if opts.binary {
				err = c.UnmarshalBinary(data)
			} else {
				err = c.UnmarshalJSON(data)
			}
			if err != nil {
				return fmt.Errorf("read snapshot %s: %w", args[0], err)
			}

			report := inspectReport{
				Capacity: c.Capacity(),
				Used:     c.UsedSpace(),
				Entries:  c.IDs(),
			}
			for _, size := range sizes(c) {
				report.Bases = append(report.Bases, c.Basis(size))
			}

			out := cmd.OutOrStdout()
			if rootOpts.Format == "json" {
				return writeJSON(out, report)
			}
			fmt.Fprintf(out, "capacity: %d\nused: %d\nentries: %d\n", report.Capacity, report.Used, len(report.Entries))
			for _, id := range report.Entries {
				fmt.Fprintf(out, "  %s\n", id)
			}
			for _, b := range report.Bases {
				fmt.Fprintf(out, "size %d: rank %d of %d rows over %d tags, standard=%v\n",
					b.Size, b.Rank, len(b.IDs), len(b.Tags), b.Standard)
				if rootOpts.Verbose {
					for _, op := range b.Ops {
						fmt.Fprintf(out, "  %s\n", op)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.binary, "binary", false, "read protobuf instead of JSON")

	return cmd
}

// sizes returns the distinct fragment sizes stored in c, ascending
func sizes(c *cache.FragmentCache) []int {
	set := make(map[int]struct{})
	for _, id := range c.IDs() {
		if cf, ok := c.Get(id); ok {
			set[cf.Size()] = struct{}{}
		}
	}
	out := make([]int, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Ints(out)
	return out
}
