package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lalrtab",
	Short: "Generate LALR(1) parsing tables from a grammar description",
	Long: `lalrtab compiles a context-free grammar into the table set that drives a
generic table-based parser: shift, reduce, and jump tables, the auxiliary
partial-match tables, and the index maps between grammar identifiers and
dense table indices.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() error {
	return rootCmd.Execute()
}
