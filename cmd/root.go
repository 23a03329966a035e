package cmd

import (
	"github.com/jzelinskie/cobrautil/v2"
	"github.com/spf13/cobra"

	"github.com/kubev2v/datatables/internal/config"
)

// envPrefix prefixes the environment variables mirroring the flags:
// --db-dsn is read from DATATABLES_DB_DSN.
const envPrefix = "DATATABLES"

func NewRootCommand() *cobra.Command {
	cfg := config.NewConfigurationWithOptionsAndDefaults()

	root := &cobra.Command{
		Use:               "datatables",
		Short:             "Serve DataTables grids over SQL databases",
		SilenceUsage:      true,
		PersistentPreRunE: cobrautil.SyncViperPreRunE(envPrefix),
	}

	root.AddCommand(
		NewRunCommand(cfg),
		NewExplainCommand(cfg),
	)

	return root
}
