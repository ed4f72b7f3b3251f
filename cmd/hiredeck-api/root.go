package main

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use: "hiredeck-api",
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(seedCmd)
}
