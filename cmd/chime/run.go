package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/chime-sh/chime/internal/logging"
	"github.com/chime-sh/chime/pipeline"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <workflow.yml>",
	Short: "Execute a workflow file against an event",
	Long:  `Loads a workflow file, matches it against the given event and executes the triggered jobs with the local shell.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		eventKind, _ := cmd.Flags().GetString("event")
		branch, _ := cmd.Flags().GetString("branch")
		action, _ := cmd.Flags().GetString("action")

		event := pipeline.Event{
			Kind:   pipeline.EventKind(eventKind),
			Branch: branch,
			Action: action,
		}

		if err := runWorkflow(cmd, args[0], event); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("event", "push", "Event kind (push, pull_request)")
	runCmd.Flags().String("branch", "main", "Branch the event refers to")
	runCmd.Flags().String("action", "", "Pull request action (opened, synchronize, ...)")
}

func runWorkflow(cmd *cobra.Command, path string, event pipeline.Event) error {
	wf, err := pipeline.Load(path)
	if err != nil {
		return err
	}

	levelName, _ := cmd.Flags().GetString("log-level")
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return err
	}
	logger := logging.New(level)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := pipeline.NewRunner(pipeline.WithLogger(logger))
	res, err := runner.Run(ctx, wf, event)
	if err != nil {
		return err
	}

	if !res.Triggered {
		fmt.Printf("Workflow %q does not subscribe to this event, nothing to do.\n", wf.Name)
		return nil
	}

	for _, inst := range res.Instances {
		status := "ok"
		if inst.Err != nil {
			status = "failed"
		}
		fmt.Printf("%s: %s\n", inst.Label(), status)
	}

	return res.Err()
}
