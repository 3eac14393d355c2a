package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ppopth/coded-caching/cache"
	"github.com/ppopth/coded-caching/fragment"
	"github.com/ppopth/coded-caching/scenario"

	"github.com/spf13/cobra"
)

type decodeOptions struct {
	batch bool
	soft  bool
}

// decodeReport is one line of output: the query id (or "batch") and what
// it yielded.
type decodeReport struct {
	Query     string              `json:"query"`
	Decodable bool                `json:"decodable"`
	Fragments []fragment.Fragment `json:"fragments"`
}

// NewDecodeCommand creates the decode command.
func NewDecodeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &decodeOptions{}

	cmd := &cobra.Command{
		Use:   "decode <scenario.yaml>",
		Short: "Decode the queries of a scenario against its cache",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(cmd, rootOpts, opts, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.batch, "batch", false, "decode all queries as one batch")
	cmd.Flags().BoolVar(&opts.soft, "soft", false, "report decodability without reconstructing content")

	return cmd
}

func runDecode(cmd *cobra.Command, rootOpts *RootOptions, opts *decodeOptions, path string) error {
	sc, err := scenario.Load(path)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	c, queries, err := sc.Build()
	if err != nil {
		return fmt.Errorf("build %s: %w", path, err)
	}
	soft := sc.Soft || opts.soft

	var reports []decodeReport
	if opts.batch {
		res, err := c.Decode(cache.NewFragmentBatch(queries...), soft)
		if err != nil {
			return err
		}
		reports = append(reports, decodeReport{Query: "batch", Decodable: res.Decodable, Fragments: res.Fragments})
	} else {
		for _, q := range queries {
			res, err := c.Decode(cache.SingleFragment{Coded: q}, soft)
			if err != nil {
				return fmt.Errorf("decode %s: %w", q.ID(), err)
			}
			reports = append(reports, decodeReport{Query: q.ID(), Decodable: res.Decodable, Fragments: res.Fragments})
		}
	}

	out := cmd.OutOrStdout()
	if rootOpts.Format == "json" {
		return writeJSON(out, reports)
	}
	for _, r := range reports {
		writeReport(out, r)
	}
	return nil
}

func writeReport(w io.Writer, r decodeReport) {
	if !r.Decodable {
		fmt.Fprintf(w, "%s: not decodable\n", r.Query)
		return
	}
	fmt.Fprintf(w, "%s: %d fragment(s)\n", r.Query, len(r.Fragments))
	for _, f := range r.Fragments {
		if f.Content == nil {
			fmt.Fprintf(w, "  %s size=%d\n", f.Tag, f.Size)
			continue
		}
		fmt.Fprintf(w, "  %s size=%d content=%q\n", f.Tag, f.Size, f.Content)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
