package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/gyrosim/internal/gui"
	"github.com/san-kum/gyrosim/internal/server"
	"github.com/san-kum/gyrosim/internal/viz"
)

var (
	theme     string
	outputDir string
	pick      bool

	addr         string
	broadcastFPS int
)

func newLiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "live",
		Short: "terminal renderer",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	cmd.Flags().StringVar(&theme, "theme", "", "colour theme (cyberpunk, retro, ocean, sunset)")
	cmd.Flags().StringVar(&outputDir, "out", ".", "directory for GIF and SVG captures")
	cmd.Flags().BoolVar(&pick, "pick", false, "choose a preset before starting")
	return cmd
}

func runLive(cmd *cobra.Command, args []string) error {
	sim, cfg, err := newSimulation(cmd)
	if err != nil {
		return err
	}
	if theme == "" {
		theme = cfg.Theme
	}
	if outputDir == "" {
		outputDir = "."
	}
	opts := viz.Options{FPS: cfg.FPS, Theme: theme, OutputDir: outputDir}
	if pick {
		sceneOpts, err := sceneOptions(cfg)
		if err != nil {
			return err
		}
		return viz.RunInteractive(sceneOpts, opts)
	}
	return viz.Run(sim, opts)
}

func newGUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gui",
		Short: "desktop 3D renderer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sim, cfg, err := newSimulation(cmd)
			if err != nil {
				return err
			}
			log, err := newLogger()
			if err != nil {
				return err
			}
			defer log.Sync()
			gui.Run(sim, gui.Options{FPS: cfg.FPS}, log)
			return nil
		},
	}
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "browser renderer over WebSocket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sim, cfg, err := newSimulation(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("broadcast-fps") {
				cfg.Server.BroadcastFPS = broadcastFPS
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			log, err := newLogger()
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := server.New(sim, server.Options{Addr: cfg.Server.Addr, BroadcastFPS: cfg.Server.BroadcastFPS}, log)
			fmt.Printf("serving on http://%s\n", cfg.Server.Addr)
			if err := srv.Run(ctx); err != nil {
				log.Error("server failed", zap.Error(err))
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address")
	cmd.Flags().IntVar(&broadcastFPS, "broadcast-fps", 0, "frames per second sent to browsers")
	return cmd
}
