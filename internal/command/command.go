package command

import (
	commandHandler "aihub/internal/command/handler"

	"github.com/google/wire"
	"github.com/spf13/cobra"
)

var ProviderSet = wire.NewSet(
	NewCommand,
	commandHandler.NewIndexHandler,
	commandHandler.NewRepairConsumptionHandler,
)

type Command struct {
	indexHandler  *commandHandler.IndexHandler
	repairHandler *commandHandler.RepairConsumptionHandler
}

// NewCommand .
func NewCommand(
	indexHandler *commandHandler.IndexHandler,
	repairHandler *commandHandler.RepairConsumptionHandler,
) *Command {
	return &Command{
		indexHandler:  indexHandler,
		repairHandler: repairHandler,
	}
}

func Register(rootCmd *cobra.Command, newCmd func() (*Command, func(), error)) {
	var (
		full             bool
		timeLimitSeconds int64
		dryRun           bool
	)

	indexCmd := &cobra.Command{
		Use:   "index",
		Short: "run a RAG indexing pass over enabled content areas",
		RunE: func(cmd *cobra.Command, args []string) error {
			command, cleanup, err := newCmd()
			if err != nil {
				return err
			}
			defer cleanup()

			return command.indexHandler.Run(cmd, full, timeLimitSeconds)
		},
	}
	indexCmd.Flags().BoolVar(&full, "full", false, "reindex everything from the beginning")
	indexCmd.Flags().Int64Var(&timeLimitSeconds, "timelimit", 0, "time budget in seconds, 0 for unlimited")

	repairCmd := &cobra.Command{
		Use:   "repair-consumption",
		Short: "rebuild aggregate consumption samples from current samples",
		RunE: func(cmd *cobra.Command, args []string) error {
			command, cleanup, err := newCmd()
			if err != nil {
				return err
			}
			defer cleanup()

			return command.repairHandler.Run(cmd, dryRun)
		},
	}
	repairCmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would change without writing")

	rootCmd.AddCommand(indexCmd, repairCmd)
}
