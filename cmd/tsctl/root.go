package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/warp/timesheet-engine/factory"
	"github.com/warp/timesheet-engine/logging"
	"github.com/warp/timesheet-engine/timesheet"
)

// errRulesBroken is returned after the violations have been printed.
var errRulesBroken = errors.New("timesheet rules broken")

type options struct {
	policyFile string
	format     string
	logLevel   string

	policy timesheet.Policy
	logger logging.Logger
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "tsctl",
		Short: "Validate and compute timesheets from JSON files",
		Long: `tsctl runs the timesheet engine against a policy JSON file and time
entries in JSON, printing daily hours, weekly bands or pay period totals.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&opts.policyFile, "policy", "p", "", "policy JSON file (required)")
	root.PersistentFlags().StringVarP(&opts.format, "format", "f", "text", "output format: text, json")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level on stderr (debug, info, warn, error)")
	_ = root.MarkPersistentFlagRequired("policy")

	root.AddCommand(
		newPolicyCmd(opts),
		newValidateCmd(opts),
		newDayCmd(opts),
		newWeekCmd(opts),
		newPeriodCmd(opts),
	)
	return root
}

// load reads the policy file and sets up logging.
func (o *options) load(cmd *cobra.Command) error {
	if o.format != "text" && o.format != "json" {
		return fmt.Errorf("invalid format %q (use text or json)", o.format)
	}

	logger, err := logging.New(cmd.ErrOrStderr(), o.logLevel, "text")
	if err != nil {
		return err
	}
	o.logger = logger

	data, err := readInput(cmd, o.policyFile)
	if err != nil {
		return err
	}
	policy, err := factory.NewPolicyFactory().ParsePolicy(string(data))
	if err != nil {
		return fmt.Errorf("policy %s: %w", o.policyFile, err)
	}
	o.policy = policy
	o.logger.Debug(cmd.Context(), "policy loaded", "policy_id", policy.ID, "holidays", len(policy.Holidays))
	return nil
}

// readInput reads path, or stdin for "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
