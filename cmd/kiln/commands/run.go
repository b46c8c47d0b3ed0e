package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"go.kiln.dev/kiln/internal/adapters/config"
	"go.kiln.dev/kiln/internal/app"
	"go.kiln.dev/kiln/internal/core/domain"
	"go.kiln.dev/kiln/internal/demo"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [goals...]",
		Short: "Evaluate the named goals and their transitive dependencies",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				// Display command usage help without returning an error.
				_ = cmd.Help()
				return nil
			}

			arena, goals := demo.Build(c.app.Discovery)
			goalIDs := make([]domain.TaskID, 0, len(args))
			for _, name := range args {
				id, ok := goals[name]
				if !ok {
					return fmt.Errorf("unknown goal %q", name)
				}
				goalIDs = append(goalIDs, id)
			}

			configPath, _ := cmd.Flags().GetString("config")
			settings, err := config.NewLoader().Load(configPath)
			if err != nil {
				return err
			}

			workers := settings.Workers
			if cmd.Flags().Changed("workers") {
				workers, _ = cmd.Flags().GetInt("workers")
			}
			failFast := settings.FailFast
			if cmd.Flags().Changed("fail-fast") {
				failFast, _ = cmd.Flags().GetBool("fail-fast")
			}
			classLoaderVersion := settings.ClassLoaderVersion
			if cmd.Flags().Changed("class-loader-version") {
				classLoaderVersion, _ = cmd.Flags().GetString("class-loader-version")
			}
			outRoot := settings.CacheRoot
			if cmd.Flags().Changed("out") {
				outRoot, _ = cmd.Flags().GetString("out")
			}
			externalOutRoot, _ := cmd.Flags().GetString("external-out")
			profilePath, _ := cmd.Flags().GetString("profile")
			planPath, _ := cmd.Flags().GetString("plan")
			tracePath, _ := cmd.Flags().GetString("trace")

			res, err := c.app.Run(cmd.Context(), arena, goalIDs, app.Options{
				Workers:            workers,
				FailFast:           failFast,
				OutRoot:            outRoot,
				ExternalOutRoot:    externalOutRoot,
				ClassLoaderVersion: classLoaderVersion,
				ProfilePath:        profilePath,
				PlanPath:           planPath,
				TracePath:          tracePath,
			})
			if err != nil {
				return err
			}

			for _, term := range res.Order {
				status := "done"
				if _, failing := res.Failing[term]; failing {
					status = "failed"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", term.Label(), status)
			}

			if !res.Ok() {
				return domain.ErrRunFailed
			}
			return nil
		},
	}
	cmd.Flags().IntP("workers", "j", 4, "number of groups to evaluate concurrently (1 runs sequentially)")
	cmd.Flags().BoolP("fail-fast", "f", false, "abort remaining terminals as soon as one fails (with --workers 1 they are always aborted after a failure)")
	cmd.Flags().String("out", "out", "root directory for labelled terminal outputs")
	cmd.Flags().String("external-out", "out/external", "root directory for external terminal outputs")
	cmd.Flags().String("class-loader-version", "dev", "seed mixed into every task's cache key this run")
	cmd.Flags().String("profile", "", "write a kiln-profile.json timing report to this path")
	cmd.Flags().String("plan", "", "write a kiln-plan.yaml execution plan snapshot to this path")
	cmd.Flags().String("trace", "", "write a Chrome trace event log to this path (parallel runs only)")
	return cmd
}
