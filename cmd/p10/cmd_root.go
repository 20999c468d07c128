package main

import (
	"io"

	"github.com/spf13/cobra"
)

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	return rootCmdFor(newApp(stdin, stdout, stderr))
}

func rootCmdFor(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "p10",
		Short:         "Play P10 fantasy Formula 1 from the terminal",
		Long:          `Pick the driver finishing tenth and the first to retire, join leagues and follow the standings.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}
	rootCmd.SetIn(a.stdin)
	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)
	rootCmd.SetVersionTemplate("p10 {{.Version}} (commit " + GitCommit + ", built " + BuildDate + ")\n")

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.opts.configFile, "config", "c", "", "Path to configuration file (default ~/.p10/config.yaml)")
	flags.StringVarP(&a.opts.output, "output", "o", "", "Output format: table, json or yaml")
	flags.StringVar(&a.opts.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	flags.BoolVar(&a.opts.ephemeral, "ephemeral", false, "Keep the session in memory only, for unattended watch runs with AWS credentials")

	rootCmd.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newRegisterCmd(a),
		newWhoamiCmd(a),
		newProfileCmd(a),
		newRacesCmd(a),
		newBetCmd(a),
		newLeaguesCmd(a),
		newStandingsCmd(a),
		newCountdownCmd(a),
		newWatchCmd(a),
	)
	return rootCmd
}
