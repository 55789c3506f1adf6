package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/quizpath"
	"github.com/aretw0/quizpath/internal/logging"
	"github.com/aretw0/quizpath/pkg/domain"
	"github.com/aretw0/quizpath/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
)

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	source   string
	logLevel string
	metrics  bool

	answersFile string
	answerSets  []string
	profileFile string
	profileSets []string

	registry *prometheus.Registry
	errOut   io.Writer
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "quizpath",
		Short: "quizpath navigates branching questionnaires",
		Long: `quizpath loads a question set (a Loam directory of Markdown questions or a
single YAML, JSON or TOML file), validates it, and answers navigation queries:
which question comes next, which questions apply, and how far along a
respondent is.`,
		Version:      quizpath.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			opts.errOut = cmd.ErrOrStderr()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.source, "file", "f", ".", "Question set: directory (Loam) or .yaml/.json/.toml file")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	flags.BoolVar(&opts.metrics, "metrics", false, "Print Prometheus metrics collected during the command")
	flags.StringVar(&opts.answersFile, "answers", "", "YAML or JSON file with recorded answers keyed by question id")
	flags.StringArrayVar(&opts.answerSets, "set", nil, "Record an answer as id=value (value is parsed as YAML, e.g. q10='[business, study]')")
	flags.StringVar(&opts.profileFile, "profile", "", "YAML or JSON file with respondent profile data")
	flags.StringArrayVar(&opts.profileSets, "profile-set", nil, "Set a profile field as key=value")

	cmd.AddCommand(newValidateCommand(opts))
	cmd.AddCommand(newGraphCommand(opts))
	cmd.AddCommand(newNextCommand(opts))
	cmd.AddCommand(newProgressCommand(opts))
	cmd.AddCommand(newResumeCommand(opts))
	cmd.AddCommand(newVersionCommand())

	return cmd
}

func (o *globalOptions) logger() (*slog.Logger, error) {
	level, err := logging.ParseLevel(o.logLevel)
	if err != nil {
		return nil, err
	}
	if o.errOut == nil {
		return logging.New(level), nil
	}
	return logging.NewWithWriter(o.errOut, level), nil
}

// sourceFrom returns the path in args, falling back to --file.
func (o *globalOptions) sourceFrom(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return o.source
}

// engine loads the question set from the path in args, falling back to --file.
func (o *globalOptions) engine(args []string, extra ...quizpath.Option) (*quizpath.Engine, error) {
	source := o.sourceFrom(args)

	logger, err := o.logger()
	if err != nil {
		return nil, err
	}

	hooks := observability.LoggingHooks(logger)
	if o.metrics {
		o.registry = prometheus.NewRegistry()
		hooks = observability.Combine(hooks, observability.NewMetrics(o.registry).Hooks())
	}

	opts := []quizpath.Option{
		quizpath.WithLogger(logger),
		quizpath.WithLifecycleHooks(hooks),
	}
	return quizpath.New(source, append(opts, extra...)...)
}

// state reads answers and profile from files and --set flags.
func (o *globalOptions) state() (domain.Answers, domain.Profile, error) {
	answers, err := readValues(o.answersFile, o.answerSets)
	if err != nil {
		return nil, nil, fmt.Errorf("answers: %w", err)
	}
	profile, err := readValues(o.profileFile, o.profileSets)
	if err != nil {
		return nil, nil, fmt.Errorf("profile: %w", err)
	}
	return domain.Answers(answers), domain.Profile(profile), nil
}

// writeMetrics dumps collected metrics in the Prometheus text format.
func (o *globalOptions) writeMetrics(w io.Writer) error {
	if o.registry == nil {
		return nil
	}
	families, err := o.registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
