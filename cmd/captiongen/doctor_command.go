package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"captiongen/internal/deps"
	"captiongen/internal/preflight"
	"captiongen/internal/services"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check external tools and directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := ctx.ensureDirectories(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			color := shouldColorize(out)

			statuses := preflight.CheckSystemDeps(cmd.Context(), cfg)
			fmt.Fprintln(out, renderStatusTable("External tools", "Dependency", dependencyRows(statuses), color))

			checks := preflight.RunAll(cfg)
			fmt.Fprintln(out, renderStatusTable("Environment", "Check", checkRows(checks), color))

			var problems []string
			if missing := deps.MissingRequired(statuses); len(missing) > 0 {
				problems = append(problems, "missing "+strings.Join(missing, ", "))
			}
			for _, check := range checks {
				if !check.Passed && check.Name != "Model cache" {
					problems = append(problems, strings.ToLower(check.Name)+" not usable")
				}
			}
			if len(problems) > 0 {
				return services.Wrap(services.ErrExternalTool, "doctor", "", strings.Join(problems, "; "), nil)
			}
			fmt.Fprintln(out, "All required dependencies available")
			return nil
		},
	}
}

func dependencyRows(statuses []deps.Status) []statusRow {
	rows := make([]statusRow, 0, len(statuses))
	for _, status := range statuses {
		state := stateOK
		detail := status.Path
		if status.Version != "" {
			detail = status.Version
		}
		if !status.Available {
			state = stateMissing
			if status.Optional {
				state = stateOptional
			}
			detail = status.Detail
		}
		rows = append(rows, statusRow{name: status.Name, state: state, detail: detail})
	}
	return rows
}

func checkRows(results []preflight.Result) []statusRow {
	rows := make([]statusRow, 0, len(results))
	for _, result := range results {
		state := stateOK
		if !result.Passed {
			state = stateWarn
		}
		rows = append(rows, statusRow{name: result.Name, state: state, detail: result.Detail})
	}
	return rows
}
