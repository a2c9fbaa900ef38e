package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Storefront cart and order service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config.json", "Path to configuration file")

	root.AddCommand(
		newServeCommand(&configPath),
		newMigrateCommand(&configPath),
		newGrantAdminCommand(&configPath),
	)
	return root
}

func newServeCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), *configPath)
		},
	}
}

func newMigrateCommand(configPath *string) *cobra.Command {
	var seed bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and optionally seed the catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return migrate(cmd.Context(), *configPath, seed)
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", true, "Upsert products from the catalog file")
	return cmd
}

func newGrantAdminCommand(configPath *string) *cobra.Command {
	var revoke bool
	cmd := &cobra.Command{
		Use:   "grant-admin <uid>",
		Short: "Give a user access to the admin endpoints",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return grantAdmin(cmd.Context(), *configPath, args[0], !revoke)
		},
	}
	cmd.Flags().BoolVar(&revoke, "revoke", false, "Remove admin access instead")
	return cmd
}
