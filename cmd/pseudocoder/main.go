package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/pseudocoder/relay/internal/client"
)

type options struct {
	url     string
	timeout time.Duration
	file    string
}

func main() {
	var opts options
	var language string

	rootCmd := &cobra.Command{
		Use:          "pseudocoder",
		Short:        "Turn pseudocode into code with the pseudocoder relay",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&opts.url, "url", "u", client.DefaultBaseURL, "Relay URL")
	rootCmd.PersistentFlags().DurationVarP(&opts.timeout, "timeout", "t", 0, "Max time to wait for the relay (0 waits forever)")
	rootCmd.PersistentFlags().StringVarP(&opts.file, "file", "f", "", "Read input from file instead of arguments")

	generateCmd := &cobra.Command{
		Use:   "generate [pseudocode]",
		Short: "Convert pseudocode to code",
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, ok := client.LookupLanguage(language)
			if !ok {
				return errors.Errorf("unsupported language %q, choose one of: %s", language, strings.Join(client.LanguageIDs(), ", "))
			}
			text, err := readInput(cmd, opts.file, args)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Generating %s...\n", lang.Name)
			res, err := newClient(opts).Generate(cmd.Context(), text, lang.ID)
			return show(cmd, client.GenerateMessage, res, err)
		},
	}
	generateCmd.Flags().StringVarP(&language, "language", "l", client.DefaultLanguage, "Target language")

	solveCmd := &cobra.Command{
		Use:   "solve [problem statement]",
		Short: "Ask the model to solve a problem statement",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, opts.file, args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "Solving...")
			res, err := newClient(opts).Solve(cmd.Context(), text)
			return show(cmd, client.SolveMessage, res, err)
		},
	}

	languagesCmd := &cobra.Command{
		Use:   "languages",
		Short: "List supported target languages",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, l := range client.Languages() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", l.ID, l.Name)
			}
		},
	}

	rootCmd.AddCommand(generateCmd, solveCmd, languagesCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newClient(opts options) *client.Client {
	return client.New(client.Config{BaseURL: opts.url, Timeout: opts.timeout})
}

// readInput takes text from --file, the arguments, or stdin, in that order.
func readInput(cmd *cobra.Command, file string, args []string) (string, error) {
	switch {
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", errors.Wrapf(err, "failed to read %s", file)
		}
		return string(data), nil
	case len(args) > 0:
		return strings.Join(args, " "), nil
	default:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", errors.Wrapf(err, "failed to read stdin")
		}
		return string(data), nil
	}
}

// show prints the result text to stdout. Failures become the command error and
// are printed by cobra.
func show(cmd *cobra.Command, message func(client.Result, error) (string, bool), res client.Result, err error) error {
	msg, isErr := message(res, err)
	if isErr {
		return errors.New(msg)
	}
	fmt.Fprintln(cmd.OutOrStdout(), msg)
	return nil
}
