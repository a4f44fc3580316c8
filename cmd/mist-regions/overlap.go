package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/inodb/mist-regions/internal/region"
)

func newOverlapCmd() *cobra.Command {
	var tolerance int

	cmd := &cobra.Command{
		Use:   "overlap [flags] <subject-start> <subject-stop> <query-start> <query-stop>",
		Short: "Classify the overlap between two regions",
		Example: `  mist-regions overlap 10 20 15 30
  mist-regions overlap --tolerance 10 100 200 195 300`,
		Args: exactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			coords := make([]int, len(args))
			for i, a := range args {
				v, err := strconv.Atoi(a)
				if err != nil {
					return &usageError{fmt.Errorf("invalid coordinate %q", a)}
				}
				coords[i] = v
			}
			return runOverlap(cmd.OutOrStdout(), coords, tolerance)
		},
	}

	cmd.Flags().IntVar(&tolerance, "tolerance", 0, "Overlap length to ignore")

	return cmd
}

func runOverlap(w io.Writer, coords []int, tolerance int) error {
	subject, err := region.New(coords[0], coords[1], nil)
	if err != nil {
		return &usageError{fmt.Errorf("subject: %w", err)}
	}
	query, err := region.New(coords[2], coords[3], nil)
	if err != nil {
		return &usageError{fmt.Errorf("query: %w", err)}
	}

	o := subject.FindOverlap(query, tolerance)
	if o == nil {
		fmt.Fprintf(w, "%s %s: no overlap\n", subject, query)
		return nil
	}
	fmt.Fprintf(w, "%s %s: type %d (%s)\n", subject, query, int(o.Type), o.Type)
	fmt.Fprintf(w, "amount\t%d\n", o.Amount)
	fmt.Fprintf(w, "query_difference\t%d\n", o.QueryDifference)
	fmt.Fprintf(w, "subject_difference\t%d\n", o.SubjectDifference)
	fmt.Fprintf(w, "query_percent\t%.4f\n", o.QueryPercent)
	fmt.Fprintf(w, "subject_percent\t%.4f\n", o.SubjectPercent)
	return nil
}
