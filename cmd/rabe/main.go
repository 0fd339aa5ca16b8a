// Command rabe inspects access policies: it compiles them to span programs,
// checks and aggregates DNF policies, evaluates attribute sets and runs a
// key-policy encryption round trip.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/dabch/rabe/pkg/rabe"
	"github.com/dabch/rabe/pkg/rabe/logging"
)

type globalOptions struct {
	Config    string `long:"config" description:"YAML configuration file"`
	LogLevel  string `long:"log-level" description:"debug, info, warn or error"`
	LogFormat string `long:"log-format" description:"text or json"`
}

// environment is shared by every command. It is filled in by configure once
// the global flags are parsed.
type environment struct {
	opts   globalOptions
	stdout io.Writer
	stderr io.Writer

	file   fileConfig
	logger logging.Logger
	cfg    rabe.Config
}

func (e *environment) configure() error {
	if e.opts.Config != "" {
		fc, err := loadConfig(e.opts.Config)
		if err != nil {
			return err
		}
		e.file = fc
	}

	h, err := logging.NewHandler(e.stderr, firstNonEmpty(e.opts.LogLevel, e.file.LogLevel), firstNonEmpty(e.opts.LogFormat, e.file.LogFormat))
	if err != nil {
		return err
	}
	e.logger = logging.New(slog.New(h))
	e.cfg = rabe.Config{Logger: e.logger, EnableZeroization: e.file.Zeroize}
	return nil
}

func newParser(env *environment) (*flags.Parser, error) {
	parser := flags.NewParser(&env.opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "rabe"
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		if err := env.configure(); err != nil {
			return err
		}
		if cmd == nil {
			return nil
		}
		return cmd.Execute(args)
	}

	commands := []struct {
		name, short, long string
		data              any
	}{
		{"compile", "Compile a policy to a span program", "Prints the rows, labels and degree of the monotone span program of a JSON policy.", &compileCommand{env: env}},
		{"dnf", "Check whether a policy is in DNF", "Reports whether no OR gate appears below an AND gate.", &dnfCommand{env: env}},
		{"satisfy", "Evaluate an attribute set", "Prunes the span program to a minimal satisfying row set and prints the reconstruction coefficients.", &satisfyCommand{env: env}},
		{"aggregate", "Aggregate demo keys over a DNF policy", "Derives demo attribute keys by hashing and prints the aggregated conjunctions smallest first.", &aggregateCommand{env: env}},
		{"kpabe", "Run a key-policy ABE round trip", "Issues a key for the policy, encrypts a message under the attributes and tries to decrypt it.", &kpabeCommand{env: env}},
		{"version", "Print the toolkit version", "", &versionCommand{env: env}},
	}
	for _, c := range commands {
		if _, err := parser.AddCommand(c.name, c.short, c.long, c.data); err != nil {
			return nil, fmt.Errorf("register %s: %w", c.name, err)
		}
	}
	return parser, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	env := &environment{stdout: stdout, stderr: stderr, logger: logging.Discard()}
	parser, err := newParser(env)
	if err != nil {
		fmt.Fprintf(stderr, "rabe: %v\n", err)
		return 2
	}

	if _, err := parser.ParseArgs(args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			fmt.Fprintln(stdout, ferr.Message)
			return 0
		}
		fmt.Fprintf(stderr, "rabe: %v\n", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
