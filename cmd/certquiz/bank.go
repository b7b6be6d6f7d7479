package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/certquiz/internal/bootstrap"
	"github.com/at-ishikawa/certquiz/internal/cli"
)

func newBankCommand() *cobra.Command {
	bankCommand := &cobra.Command{
		Use:   "bank",
		Short: "Question bank commands",
	}

	bankCommand.AddCommand(newBankValidateCommand())
	return bankCommand
}

func newBankValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load and validate every configured question bank",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			bank, err := bootstrap.LoadBank(cmd.Context(), cfg.QuestionBanks)
			if err != nil {
				return fmt.Errorf("bootstrap.LoadBank() > %w", err)
			}

			counts := make(map[string]int)
			for _, q := range bank.All() {
				counts[q.Domain]++
			}
			printer := cli.NewPrinter(cmd.OutOrStdout())
			printer.Printf("%d question(s) are valid.\n", bank.Len())
			for _, domain := range bank.Domains() {
				printer.Printf("  %-24s %d\n", domain, counts[domain])
			}
			if n := counts[""]; n > 0 {
				printer.Printf("  %-24s %d\n", "(no domain)", n)
			}
			return nil
		},
	}
}
