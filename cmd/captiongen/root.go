package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"captiongen/internal/captions"
	"captiongen/internal/engine"
	"captiongen/internal/logging"
	"captiongen/internal/services"
)

const usageLine = "Usage: captiongen <path_to_video_file>"

func newRootCommand() *cobra.Command {
	var configFlag string

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:           "captiongen <path_to_video_file>",
		Short:         "Generate SRT, VTT, and TSV captions for a video file",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          exactlyOneSource,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, ctx, args[0])
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newDoctorCommand(ctx))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func exactlyOneSource(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return services.Wrap(services.ErrUsage, "", "", fmt.Sprintf("expected exactly one video path, got %d arguments", len(args)), nil)
	}
	return nil
}

func runGenerate(cmd *cobra.Command, ctx *commandContext, source string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if err := captions.CheckSource(source); err != nil {
		return err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}
	logger.Debug("configuration loaded",
		logging.String("config_path", ctx.configPath),
		logging.String("log_path", ctx.logPath),
	)

	loader, err := engine.New(cfg, logger)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "engine", "select", "", err)
	}

	out := cmd.OutOrStdout()
	gen := captions.NewGenerator(cfg, loader, logger,
		captions.WithReporter(captions.NewConsoleReporter(out, shouldColorize(out))),
	)
	_, err = gen.Run(cmd.Context(), source)
	return err
}

func shouldColorize(w any) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
