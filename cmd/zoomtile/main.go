// Command zoomtile inspects and exports the tile pyramid of an image.
//
// Usage:
//
//	zoomtile plan photo.jpg --scale 0.5
//	zoomtile export photo.jpg --out tiles --level 4
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	zi "github.com/gogpu/zoomimage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "zoomtile:", err)
		os.Exit(1)
	}
}

// rootFlags are the persistent flags shared by every subcommand.
type rootFlags struct {
	configPath string
	overrides  Config
}

func newRootCommand() *cobra.Command {
	var rf rootFlags
	root := &cobra.Command{
		Use:           "zoomtile",
		Short:         "Plan and export subsampling tile pyramids",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&rf.configPath, "config", "", "path to a YAML config file")
	pf.IntVar(&rf.overrides.TileSize, "tile-size", 0, "tile edge in decoded pixels (default 512)")
	pf.Int64Var(&rf.overrides.MaxDecodePixels, "max-decode-pixels", 0, "pixel budget of one pyramid level, 0 for unlimited")
	pf.IntVar(&rf.overrides.Workers, "workers", 0, "parallel decodes (default 4)")
	pf.BoolVarP(&rf.overrides.Verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(newPlanCommand(&rf), newExportCommand(&rf))
	return root
}

// config loads the config file, applies flag overrides and installs the
// logger.
func (rf *rootFlags) config() (Config, error) {
	var cfg Config
	if rf.configPath != "" {
		var err error
		if cfg, err = LoadConfig(rf.configPath); err != nil {
			return Config{}, err
		}
	}
	cfg.Resolve(rf.overrides)
	if cfg.Verbose {
		zi.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	return cfg, nil
}
