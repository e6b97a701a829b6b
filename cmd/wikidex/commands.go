package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	gojson "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/hupe1980/wikidex"
	"github.com/hupe1980/wikidex/codec"
	"github.com/hupe1980/wikidex/record"
)

// tagsValue is a repeatable --tag flag holding record type names.
type tagsValue []record.Tag

var _ pflag.Value = (*tagsValue)(nil)

func (v *tagsValue) String() string {
	names := make([]string, len(*v))
	for i, t := range *v {
		names[i] = t.String()
	}
	return strings.Join(names, ",")
}

func (v *tagsValue) Set(s string) error {
	for _, name := range strings.Split(s, ",") {
		t, ok := record.ParseTag(strings.TrimSpace(name))
		if !ok {
			return fmt.Errorf("unknown record type %q", name)
		}
		*v = append(*v, t)
	}
	return nil
}

func (v *tagsValue) Type() string { return "type" }

func addTagFlag(fs *pflag.FlagSet, v *tagsValue) {
	fs.VarP(v, "tag", "t", "Restrict to record types (common, function, struct, field, flag); repeatable")
}

func getCmd() *cobra.Command {
	var diag bool

	cmd := &cobra.Command{
		Use:   "get [query]",
		Short: "Look up a query exactly",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			idx, err := openIndex(ctx)
			if err != nil {
				return err
			}
			defer closeIndex(ctx, idx)

			r, ok := idx.TryGet(args[0])
			if !ok {
				return fmt.Errorf("%q: %w", args[0], wikidex.ErrNoMatch)
			}
			if diag {
				return printDiagnostic(cmd.OutOrStdout(), r)
			}
			fmt.Fprintln(cmd.OutOrStdout(), record.Render(r))
			return nil
		},
	}

	cmd.Flags().BoolVar(&diag, "diag", false, "Print the record in CBOR diagnostic notation")

	return cmd
}

// printDiagnostic writes r as CBOR diagnostic notation, prefixed by its type.
func printDiagnostic(w io.Writer, r record.Record) error {
	data, err := codec.CBOR{}.Marshal(r)
	if err != nil {
		return err
	}
	s, err := codec.Diagnose(data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s %s\n", r.Tag(), s)
	return err
}

func queryCmd() *cobra.Command {
	var tags tagsValue
	var showMatch bool

	cmd := &cobra.Command{
		Use:   "query [text]",
		Short: "Search by exact, approximate and subsequence match",
		Long: `Answers a query the way the bot does: an exact lookup first, then the
best approximate key (score >= cutoff), then keys containing the query's
characters in order. Every answered query is counted.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			idx, err := openIndex(ctx)
			if err != nil {
				return err
			}
			defer closeIndex(ctx, idx)

			q := strings.Join(args, " ")
			res, err := idx.Search(ctx, q, tags...)
			if err != nil {
				return fmt.Errorf("%q: %w", q, err)
			}

			out := cmd.OutOrStdout()
			if showMatch {
				fmt.Fprintf(out, "[%s %q score=%d ties=%d choices=%d]\n", res.Method, res.Key, res.Score, res.TieSize, res.Choices)
			}
			fmt.Fprintln(out, record.Render(res.Record))

			if n, ok := idx.RecordQuery(ctx); ok {
				fmt.Fprintf(cmd.ErrOrStderr(), "Milestone reached: %d queries\n", n)
			}
			return nil
		},
	}

	addTagFlag(cmd.Flags(), &tags)
	cmd.Flags().BoolVarP(&showMatch, "match", "m", false, "Show how the record was found")

	return cmd
}

func keysCmd() *cobra.Command {
	var tags tagsValue

	cmd := &cobra.Command{
		Use:   "keys",
		Short: "List lookup keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			idx, err := openIndex(ctx)
			if err != nil {
				return err
			}
			defer closeIndex(ctx, idx)

			keys := idx.Keys()
			if len(tags) > 0 {
				keys = idx.KeysWithTags(tags...)
			}
			out := cmd.OutOrStdout()
			for k := range keys {
				fmt.Fprintln(out, k)
			}
			return nil
		},
	}

	addTagFlag(cmd.Flags(), &tags)

	return cmd
}

func statsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show index statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			idx, err := openIndex(ctx)
			if err != nil {
				return err
			}
			defer closeIndex(ctx, idx)

			s := idx.Stats()
			out := cmd.OutOrStdout()
			if asJSON {
				enc := gojson.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(s)
			}

			fmt.Fprintf(out, "sources:          %d (%d failed)\n", s.Build.Sources, s.Build.FailedSources)
			fmt.Fprintf(out, "pairs:            %d\n", s.Build.Pairs)
			fmt.Fprintf(out, "exact keys:       %d\n", s.Dictionary.Keys)
			fmt.Fprintf(out, "lookup keys:      %d\n", s.Lookup.Keys)
			fmt.Fprintf(out, "distinct values:  %d\n", s.Dictionary.DistinctValues)
			fmt.Fprintf(out, "encoded bytes:    %d keys, %d values\n", s.Dictionary.KeyBytes, s.Dictionary.ValueBytes)
			for _, t := range record.Tags() {
				if n := s.Lookup.KeysByTag[t]; n > 0 {
					fmt.Fprintf(out, "  %-16s%d\n", t.String()+":", n)
				}
			}
			fmt.Fprintf(out, "queries:          %d\n", s.Queries)
			fmt.Fprintf(out, "build time:       %s\n", s.Build.Duration)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")

	return cmd
}

func dumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Write the exact-lookup dictionary to the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			idx, err := openIndex(ctx)
			if err != nil {
				return err
			}
			defer closeIndex(ctx, idx)

			name, err := idx.Dump(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), name)
			return nil
		},
	}
}

func closeIndex(ctx context.Context, idx *wikidex.Index) {
	if err := idx.Close(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Warning: failed to save query count: %v\n", err)
	}
}
