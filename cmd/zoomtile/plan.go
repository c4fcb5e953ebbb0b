package main

import (
	"fmt"
	"image"
	"io"

	"github.com/spf13/cobra"

	"github.com/gogpu/zoomimage/decode"
	"github.com/gogpu/zoomimage/subsampling"
)

func newPlanCommand(rf *rootFlags) *cobra.Command {
	var (
		scale   float64
		visible []int
	)
	cmd := &cobra.Command{
		Use:   "plan <image>",
		Short: "Print the pyramid levels and tile grids of an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var viewport image.Rectangle
			if len(visible) > 0 {
				if len(visible) != 4 {
					return fmt.Errorf("--visible wants left,top,right,bottom, got %v", visible)
				}
				viewport = image.Rect(visible[0], visible[1], visible[2], visible[3])
			}
			cfg, err := rf.config()
			if err != nil {
				return err
			}
			src, err := decode.NewFileSource(args[0])
			if err != nil {
				return err
			}
			info, err := decode.NewDecoder().DecodeInfo(cmd.Context(), src)
			if err != nil {
				return err
			}
			return writePlan(cmd.OutOrStdout(), cfg.Planner(), info, scale, viewport)
		},
	}
	cmd.Flags().Float64Var(&scale, "scale", 0, "also report the level chosen at this display scale")
	cmd.Flags().IntSliceVar(&visible, "visible", nil,
		"visible source rect left,top,right,bottom; lists the tiles a viewer would load at --scale")
	return cmd
}

// planWriter keeps the first write error so the report reads linearly.
type planWriter struct {
	w   io.Writer
	err error
}

func (pw *planWriter) printf(format string, args ...any) {
	if pw.err == nil {
		_, pw.err = fmt.Fprintf(pw.w, format, args...)
	}
}

func writePlan(w io.Writer, p subsampling.Planner, info subsampling.ImageInfo, scale float64, visible image.Rectangle) error {
	pw := &planWriter{w: w}
	origin := info.Size()
	pw.printf("image %dx%d %s\n", info.Width, info.Height, info.MimeType)
	for _, ss := range p.Levels(origin) {
		g := p.Grid(origin, ss)
		pw.printf("level %-4d plane %dx%d  grid %dx%d  tiles %d\n",
			ss, ceilDiv(info.Width, ss), ceilDiv(info.Height, ss), g.Cols, g.Rows, len(g.Tiles))
	}
	level := p.SampleSize(origin, scale)
	if scale > 0 {
		pw.printf("scale %g -> level %d\n", scale, level)
	}
	if !visible.Empty() {
		tiles := p.Grid(origin, level).Intersecting(visible)
		pw.printf("visible %v at level %d: %d tiles\n", visible, level, len(tiles))
		for _, t := range tiles {
			pw.printf("  tile %d,%d %v\n", t.Coord.X, t.Coord.Y, t.Bounds)
		}
	}
	return pw.err
}

func ceilDiv(a, b int) int { return (a + b - 1) / b }
