package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/spatialbench/spatialbench-go/internal/data"
)

func newSchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the parquet schema of each dataset table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dataDir, _ := cmd.Flags().GetString("data-dir")
			paths, err := data.Discover(dataDir)
			if err != nil {
				return err
			}
			return data.WriteSchemas(os.Stdout, paths)
		},
	}

	cmd.Flags().String("data-dir", "data", "Directory containing the parquet dataset")

	return cmd
}
