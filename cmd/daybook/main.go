package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "daybook",
	Short: "daybook keeps a small shop's daily books",
	Long: "daybook records per-day production, expenses, purchases and income,\n" +
		"derives profit/loss, and reminds the owner to log missing days.",
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config/example.yaml", "path to config file")
	rootCmd.AddCommand(serveCmd, exportCmd, notifyCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
