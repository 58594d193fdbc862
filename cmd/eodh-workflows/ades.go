package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/eo-datahub/eodh-workflows/internal/config"
	"github.com/eo-datahub/eodh-workflows/pkg/ades"
)

var waitFlag = &cli.DurationFlag{
	Name:  "wait",
	Usage: "Poll the job until it finishes, at this interval (e.g. 10s)",
}

func newAdesCommand() *cli.Command {
	return &cli.Command{
		Name:  "ades",
		Usage: "Interact with the execution service",
		Commands: []*cli.Command{
			{
				Name:      "deploy",
				Usage:     "Deploy a process from a CWL file",
				ArgsUsage: "<cwl-file>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "update",
						Usage: "Replace an already deployed process",
					},
					&cli.StringFlag{
						Name:  "process",
						Usage: "Process ID to replace, defaults to the workflow id in the document",
					},
				},
				Action: adesDeployAction,
			},
			{
				Name:   "processes",
				Usage:  "List deployed processes",
				Action: adesProcessesAction,
			},
			{
				Name:      "process",
				Usage:     "Show a deployed process",
				ArgsUsage: "<process-id>",
				Action:    adesProcessAction,
			},
			{
				Name:      "undeploy",
				Usage:     "Remove a deployed process",
				ArgsUsage: "<process-id>",
				Action:    adesUndeployAction,
			},
			{
				Name:      "execute",
				Usage:     "Execute a process asynchronously",
				ArgsUsage: "<process-id>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "inputs",
						Usage: "Execution inputs as a JSON object",
						Value: "{}",
					},
					waitFlag,
				},
				Action: adesExecuteAction,
			},
			{
				Name:   "jobs",
				Usage:  "List jobs",
				Action: adesJobsAction,
			},
			{
				Name:      "status",
				Usage:     "Show a job",
				ArgsUsage: "<job-id>",
				Flags:     []cli.Flag{waitFlag},
				Action:    adesStatusAction,
			},
			{
				Name:      "results",
				Usage:     "Fetch results of a successful job",
				ArgsUsage: "<job-id>",
				Action:    adesResultsAction,
			},
			{
				Name:      "dismiss",
				Usage:     "Cancel a running job",
				ArgsUsage: "<job-id>",
				Action:    adesDismissAction,
			},
		},
	}
}

func adesClient() (*ades.Client, *config.Settings, error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, nil, err
	}
	if err := settings.RequireADES(); err != nil {
		return nil, nil, err
	}
	c, err := ades.NewClient(settings.ADES.URL, settings.ADES.Token)
	if err != nil {
		return nil, nil, err
	}
	return c, settings, nil
}

func singleArg(cmd *cli.Command, usage string) (string, error) {
	if cmd.Args().Len() != 1 {
		return "", fmt.Errorf("expected 1 argument: %s", usage)
	}
	return cmd.Args().Get(0), nil
}

func adesDeployAction(ctx context.Context, cmd *cli.Command) error {
	path, err := singleArg(cmd, "path to a CWL file")
	if err != nil {
		return err
	}
	doc, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	c, _, err := adesClient()
	if err != nil {
		return err
	}

	if cmd.Bool("update") {
		processID := cmd.String("process")
		if processID == "" {
			return fmt.Errorf("flag --process is required with --update")
		}
		if err := c.UpdateProcess(ctx, processID, doc); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Process %s updated\n", processID)
		return nil
	}

	if err := c.DeployProcess(ctx, doc); err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, "Process deployed")
	return nil
}

func adesProcessesAction(ctx context.Context, cmd *cli.Command) error {
	c, _, err := adesClient()
	if err != nil {
		return err
	}
	processes, err := c.ListProcesses(ctx)
	if err != nil {
		return err
	}
	return printJSON(processes)
}

func adesProcessAction(ctx context.Context, cmd *cli.Command) error {
	processID, err := singleArg(cmd, "process id")
	if err != nil {
		return err
	}
	c, _, err := adesClient()
	if err != nil {
		return err
	}
	process, err := c.GetProcess(ctx, processID)
	if err != nil {
		return err
	}
	return printJSON(process)
}

func adesUndeployAction(ctx context.Context, cmd *cli.Command) error {
	processID, err := singleArg(cmd, "process id")
	if err != nil {
		return err
	}
	c, _, err := adesClient()
	if err != nil {
		return err
	}
	if err := c.Undeploy(ctx, processID); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Process %s undeployed\n", processID)
	return nil
}

func adesExecuteAction(ctx context.Context, cmd *cli.Command) error {
	processID, err := singleArg(cmd, "process id")
	if err != nil {
		return err
	}

	var inputs map[string]any
	if err := json.Unmarshal([]byte(cmd.String("inputs")), &inputs); err != nil {
		return fmt.Errorf("parsing --inputs: %w", err)
	}

	c, _, err := adesClient()
	if err != nil {
		return err
	}
	job, err := c.Execute(ctx, processID, ades.ExecuteRequest{Inputs: inputs})
	if err != nil {
		return err
	}

	if interval := cmd.Duration(waitFlag.Name); interval > 0 {
		job, err = c.WaitForJob(ctx, job.JobID, interval)
		if err != nil {
			return err
		}
	}
	return printJSON(job)
}

func adesJobsAction(ctx context.Context, cmd *cli.Command) error {
	c, _, err := adesClient()
	if err != nil {
		return err
	}
	jobs, err := c.ListJobs(ctx)
	if err != nil {
		return err
	}
	return printJSON(jobs)
}

func adesStatusAction(ctx context.Context, cmd *cli.Command) error {
	jobID, err := singleArg(cmd, "job id")
	if err != nil {
		return err
	}
	c, _, err := adesClient()
	if err != nil {
		return err
	}

	var job *ades.Job
	if interval := cmd.Duration(waitFlag.Name); interval > 0 {
		job, err = c.WaitForJob(ctx, jobID, interval)
	} else {
		job, err = c.GetJob(ctx, jobID)
	}
	if err != nil {
		return err
	}
	return printJSON(job)
}

func adesResultsAction(ctx context.Context, cmd *cli.Command) error {
	jobID, err := singleArg(cmd, "job id")
	if err != nil {
		return err
	}
	c, _, err := adesClient()
	if err != nil {
		return err
	}
	results, err := c.JobResults(ctx, jobID)
	if err != nil {
		return err
	}
	return printJSON(results)
}

func adesDismissAction(ctx context.Context, cmd *cli.Command) error {
	jobID, err := singleArg(cmd, "job id")
	if err != nil {
		return err
	}
	c, _, err := adesClient()
	if err != nil {
		return err
	}
	if err := c.DismissJob(ctx, jobID); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Job %s dismissed\n", jobID)
	return nil
}
