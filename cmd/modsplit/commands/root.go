package commands

import (
	"github.com/spf13/cobra"

	"github.com/l3aro/modsplit/internal/config"
	"github.com/l3aro/modsplit/internal/log"
)

var (
	cfgFile string
	cfg     *config.Config
)

// Root builds the modsplit command tree.
func Root() *cobra.Command {
	root := &cobra.Command{
		Use:           "modsplit",
		Short:         "Regroup a source tree into modules by call-graph community",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfgFile != "" {
				cfg, err = config.LoadFromFile(cfgFile)
			} else {
				cfg, err = config.Load()
			}
			if err != nil {
				return err
			}
			logger := log.Default()
			logger.SetLevel(log.LevelFromString(cfg.LogLevel))
			logger.SetJSONOutput(cfg.LogFormat == config.LogFormatJSON)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a modsplit.yaml config file")

	root.AddCommand(newPlanCommand())
	root.AddCommand(newRewriteCommand())
	return root
}
