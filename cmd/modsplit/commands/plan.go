package commands

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/l3aro/modsplit/internal/ioadapter"
	"github.com/l3aro/modsplit/pkg/pipeline"
	"github.com/l3aro/modsplit/pkg/types"
)

func newPlanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan <src_root>",
		Short: "Parse and extract entities without running community detection or emitting files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			srcRoot := args[0]

			pipeline.SourceSuffix = cfg.SourceSuffix
			sources, err := ioadapter.ReadSources(srcRoot, ioadapter.Options{
				SkipHidden:      true,
				IgnoreFileName:  ".modsplitignore",
				SourceSuffix:    cfg.SourceSuffix,
				DefaultExcludes: ioadapter.DefaultOptions().DefaultExcludes,
			})
			if err != nil {
				return err
			}

			entities, err := pipeline.Plan(context.Background(), pipeline.Options{
				SrcRoot:  srcRoot,
				CacheDir: cfg.CacheDir,
			}, sources)
			if err != nil {
				return err
			}

			counts := map[types.EntityKind]int{}
			names := make([]string, 0, len(entities))
			for name, ent := range entities {
				counts[ent.Kind()]++
				names = append(names, string(name))
			}
			sort.Strings(names)

			fmt.Printf("%d source file(s), %d entit(y/ies): %d function(s), %d class(es), %d global(s)\n",
				len(sources), len(entities),
				counts[types.KindFunction], counts[types.KindClass], counts[types.KindGlobal])
			for _, n := range names {
				fmt.Println(" ", n)
			}
			return nil
		},
	}
	return cmd
}
