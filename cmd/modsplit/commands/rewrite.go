package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/l3aro/modsplit/internal/ioadapter"
	"github.com/l3aro/modsplit/internal/log"
	"github.com/l3aro/modsplit/pkg/pipeline"
	"github.com/l3aro/modsplit/pkg/rewrite"
)

func newRewriteCommand() *cobra.Command {
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "rewrite <src_root> <dst_root>",
		Short: "Rewrite a source tree into modules grouped by call-graph community",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			srcRoot, dstRoot := args[0], args[1]
			logger := log.Default()

			if !assumeYes {
				if entries, err := os.ReadDir(dstRoot); err == nil && len(entries) > 0 {
					var proceed bool
					form := huh.NewForm(
						huh.NewGroup(
							huh.NewConfirm().
								Title(fmt.Sprintf("%s is not empty", dstRoot)).
								Description("Write into it anyway?").
								Affirmative("Yes").
								Negative("No").
								Value(&proceed),
						),
					)
					if err := form.Run(); err != nil {
						return fmt.Errorf("interactive prompt failed: %w", err)
					}
					if !proceed {
						return fmt.Errorf("aborted: %s is not empty", dstRoot)
					}
				}
			}

			pipeline.SourceSuffix = cfg.SourceSuffix
			rewrite.SourceSuffix = cfg.SourceSuffix
			rewrite.PackageMarker = cfg.PackageMarker

			sources, err := ioadapter.ReadSources(srcRoot, ioadapter.Options{
				SkipHidden:      true,
				IgnoreFileName:  ".modsplitignore",
				SourceSuffix:    cfg.SourceSuffix,
				DefaultExcludes: ioadapter.DefaultOptions().DefaultExcludes,
			})
			if err != nil {
				return err
			}
			logger.Info("read sources", "count", len(sources))

			res, err := pipeline.Run(context.Background(), pipeline.Options{
				SrcRoot:                srcRoot,
				DstRoot:                dstRoot,
				CacheDir:               cfg.CacheDir,
				DisableSingletonRescue: !cfg.EnableSingletonRescue,
			}, sources)
			if err != nil {
				return err
			}
			logger.Info("computed rewrite plan", "modules", len(res.Named), "files", len(res.Files))
			if res.CacheEnabled {
				logger.Info("parse cache", "hit_rate", res.CacheHitRate)
			}

			if err := ioadapter.WriteFiles(res.Files); err != nil {
				return err
			}
			logger.Info("wrote files", "count", len(res.Files), "dst", filepath.Clean(dstRoot))

			if err := ioadapter.RunFormatter(cfg.Formatter, dstRoot); err != nil {
				logger.Warn("formatter failed", "err", err.Error())
			}

			return nil
		},
	}

	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip the overwrite confirmation prompt")
	return cmd
}
