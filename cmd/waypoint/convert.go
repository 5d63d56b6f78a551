package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/waypoint/codec"
	"github.com/hupe1980/waypoint/graph/grid"
)

func newConvertCmd(a *app) *cobra.Command {
	var (
		mapFile     string
		name        string
		compression string
		codecName   string
	)

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert an ASCII map into a snapshot",
		Example: `  waypoint convert --map level.txt --name level.wpg --compression zstd
  waypoint convert --map level.txt --name maps/level.wpg --config s3.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if mapFile == "" {
				return errNoMap
			}
			if name == "" {
				name = mapFile + ".wpg"
			}
			comp, err := grid.ParseCompression(compression)
			if err != nil {
				return err
			}
			c, ok := codec.ByName(codecName)
			if !ok {
				return fmt.Errorf("unknown codec %q", codecName)
			}

			g, _, err := a.loadGraph(ctx, mapFile, "")
			if err != nil {
				return err
			}
			store, err := openStore(ctx, a.cfg.Store)
			if err != nil {
				return err
			}
			if err := g.SaveSnapshot(ctx, store, name, grid.SnapshotOptions{Codec: c, Compression: comp}); err != nil {
				return fmt.Errorf("save snapshot %s: %w", name, err)
			}

			a.logger.Info("snapshot saved",
				"name", name,
				"store", a.cfg.Store.Kind,
				"compression", comp.String(),
				"codec", c.Name(),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%dx%d, %s)\n", name, g.Width(), g.Depth(), comp)
			return nil
		},
	}

	cmd.Flags().StringVar(&mapFile, "map", "", "ASCII map file")
	cmd.Flags().StringVar(&name, "name", "", "Snapshot name in the configured store (default <map>.wpg)")
	cmd.Flags().StringVarP(&compression, "compression", "c", "zstd", "Body compression (none|lz4|zstd)")
	cmd.Flags().StringVar(&codecName, "codec", codec.Default.Name(), "Header codec ("+strings.Join(codec.Names(), "|")+")")
	return cmd
}
