package main

import (
	"fmt"
	"io"
	"os"

	"github.com/parsekit/lalrtab/grammar"
	"github.com/parsekit/lalrtab/tabspec"
	"github.com/spf13/cobra"
)

var compileFlags = struct {
	output   *string
	strict   *bool
	partials *bool
	negative *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "compile",
		Short:   "Compile a grammar description into a parsing table set",
		Example: `  lalrtab compile grammar.toml -o tables.toml`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runCompile,
	}
	compileFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	compileFlags.strict = cmd.Flags().Bool("strict", false, "treat every conflict as a fatal error")
	compileFlags.partials = cmd.Flags().Bool("partials", false, "generate the partial-match tables")
	compileFlags.negative = cmd.Flags().Bool("negative-sentinels", false, "write negative sentinel values")
	rootCmd.AddCommand(cmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	var src io.Reader = os.Stdin
	if len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		src = f
	}

	desc, err := tabspec.ReadDescription(src)
	if err != nil {
		return err
	}

	gram, err := grammar.FromDescription(desc)
	if err != nil {
		return err
	}

	var opts []grammar.CompileOption
	if *compileFlags.strict {
		opts = append(opts, grammar.StrictMode())
	}
	if *compileFlags.partials {
		opts = append(opts, grammar.EnablePartials())
	}

	tabSet, conflicts, err := grammar.Compile(gram, opts...)
	reportConflicts(desc, conflicts)
	if err != nil {
		return err
	}

	w := &tabspec.Writer{
		NegativeSentinels: *compileFlags.negative,
	}

	if *compileFlags.output != "" {
		f, err := os.OpenFile(*compileFlags.output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("failed to open the output file %v: %w", *compileFlags.output, err)
		}
		defer f.Close()
		return w.Write(f, tabSet)
	}
	return w.Write(os.Stdout, tabSet)
}

// reportConflicts prints one line per conflict, resolved or not, to stderr.
func reportConflicts(desc *tabspec.GrammarDescription, conflicts []grammar.Conflict) {
	termNames := map[int]string{}
	for _, t := range desc.Terminals {
		termNames[t.ID] = t.Name
	}
	name := func(id grammar.SymbolID) string {
		if n, ok := termNames[int(id)]; ok && n != "" {
			return n
		}
		return fmt.Sprintf("#%v", int(id))
	}

	for _, c := range conflicts {
		switch c := c.(type) {
		case *grammar.ShiftReduceConflict:
			adopted := fmt.Sprintf("reduce rule %v", c.Rule)
			if c.ResolvedBy == grammar.Unresolved {
				adopted = "error (no action adopted)"
			} else if c.AdoptedShift {
				adopted = fmt.Sprintf("shift to state %v", c.NextState)
			}
			fmt.Fprintf(os.Stderr, "conflict: state %v: shift/reduce on %v against rule %v: %v (%v)\n",
				c.State, name(c.Terminal), c.Rule, adopted, c.ResolvedBy)
		case *grammar.ReduceReduceConflict:
			fmt.Fprintf(os.Stderr, "conflict: state %v: reduce/reduce on %v between rules %v and %v: rule %v adopted (%v)\n",
				c.State, name(c.Terminal), c.Rule1, c.Rule2, c.Adopted, c.ResolvedBy)
		}
	}
	if len(conflicts) > 0 {
		fmt.Fprintf(os.Stderr, "%v conflicts\n", len(conflicts))
	}
}
