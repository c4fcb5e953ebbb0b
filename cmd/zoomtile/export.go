package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync/atomic"

	"github.com/HugoSmits86/nativewebp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	zi "github.com/gogpu/zoomimage"
	"github.com/gogpu/zoomimage/decode"
	"github.com/gogpu/zoomimage/subsampling"
)

func newExportCommand(rf *rootFlags) *cobra.Command {
	var level int
	cmd := &cobra.Command{
		Use:   "export <image>",
		Short: "Decode every tile of the pyramid and write it as WebP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rf.config()
			if err != nil {
				return err
			}
			src, err := decode.NewFileSource(args[0])
			if err != nil {
				return err
			}
			n, err := exportTiles(cmd.Context(), cfg, src, level)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d tiles to %s\n", n, cfg.OutputDir)
			return nil
		},
	}
	cmd.Flags().StringVarP(&rf.overrides.OutputDir, "out", "o", "", "output directory (default tiles)")
	cmd.Flags().IntVar(&level, "level", 0, "export only this sample size, 0 for every level")
	return cmd
}

// exportTiles writes each tile to OutputDir/<sampleSize>/<col>_<row>.webp
// and returns the number written.
func exportTiles(ctx context.Context, cfg Config, src subsampling.ImageSource, level int) (int, error) {
	dec := decode.NewDecoder(decode.WithRetained(1))
	info, err := dec.DecodeInfo(ctx, src)
	if err != nil {
		return 0, err
	}
	p := cfg.Planner()
	levels := p.Levels(info.Size())
	if level > 0 {
		if !slices.Contains(levels, level) {
			return 0, fmt.Errorf("level %d not in pyramid %v", level, levels)
		}
		levels = []int{level}
	}

	var written atomic.Int64
	for _, ss := range levels {
		dir := filepath.Join(cfg.OutputDir, fmt.Sprint(ss))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return int(written.Load()), fmt.Errorf("export: %w", err)
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(cfg.Workers)
		for _, t := range p.Grid(info.Size(), ss).Tiles {
			g.Go(func() error {
				bm, err := dec.DecodeRegion(gctx, src, t.CacheKey(src.Key()), t.Bounds, ss)
				if err != nil {
					return err
				}
				path := filepath.Join(dir, fmt.Sprintf("%d_%d.webp", t.Coord.X, t.Coord.Y))
				if err := writeWebP(path, bm); err != nil {
					return err
				}
				written.Add(1)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return int(written.Load()), fmt.Errorf("export level %d: %w", ss, err)
		}
		zi.Logger().Debug("zoomtile: level exported", "sampleSize", ss, "dir", dir)
	}
	return int(written.Load()), nil
}

func writeWebP(path string, bm subsampling.TileBitmap) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: create %s: %w", path, err)
	}
	if err := nativewebp.Encode(f, bm.Image(), nil); err != nil {
		_ = f.Close()
		return fmt.Errorf("export: encode %s: %w", path, err)
	}
	return f.Close()
}
