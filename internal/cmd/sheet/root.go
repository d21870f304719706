package sheet

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/louisbranch/voidsheet/internal/platform/logging"
	"github.com/louisbranch/voidsheet/internal/services/sheet/app"
	"github.com/louisbranch/voidsheet/internal/services/sheet/storage/sqlite"
)

// runtime holds what a subcommand needs once flags are parsed.
type runtime struct {
	cfg      Config
	service  *app.Service
	store    *sqlite.Store
	logger   *zap.Logger
	renderer *renderer
}

type cli struct {
	cfg Config
	rt  *runtime
}

// Run executes the command tree with args and releases the store afterwards.
func Run(ctx context.Context, cfg Config, args []string, out, errOut io.Writer) error {
	c := &cli{cfg: cfg}
	root := c.rootCommand()
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)
	defer c.close()
	return root.ExecuteContext(ctx)
}

// NewRootCommand builds the command tree. cfg supplies flag defaults.
func NewRootCommand(cfg Config) *cobra.Command {
	c := &cli{cfg: cfg}
	return c.rootCommand()
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "voidsheet",
		Short:         "Derive character sheet values",
		Long:          "Derives characteristics, skills, armour, encumbrance and the roll bindings for an actor document.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.cfg.validate(); err != nil {
				return err
			}
			rt, err := newRuntime(cmd.Context(), c.cfg, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			c.rt = rt
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			c.close()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.cfg.DBPath, "db", c.cfg.DBPath, "sqlite path for stored projections (empty disables storage)")
	flags.StringVar(&c.cfg.LogLevel, "log-level", c.cfg.LogLevel, "log level: debug, info, warn or error")
	flags.StringVarP(&c.cfg.Output, "output", "o", c.cfg.Output, "output format: text or json")
	flags.StringVar(&c.cfg.Lang, "lang", c.cfg.Lang, "language tag for number formatting")

	root.AddCommand(
		newDeriveCommand(c),
		newBindingsCommand(c),
		newExplainCommand(c),
		newWatchCommand(c),
		newScenarioCommand(c),
		newProjectionsCommand(c),
		newRulesCommand(c),
	)
	return root
}

func (c *cli) close() {
	if c.rt == nil {
		return
	}
	_ = c.rt.logger.Sync()
	_ = c.rt.store.Close()
	c.rt = nil
}

func newRuntime(ctx context.Context, cfg Config, out io.Writer) (*runtime, error) {
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	opts := []app.Option{app.WithLogger(logger)}
	var store *sqlite.Store
	if cfg.DBPath != "" {
		store, err = sqlite.Open(ctx, cfg.DBPath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, app.WithStore(store))
	}
	return &runtime{
		cfg:      cfg,
		service:  app.New(opts...),
		store:    store,
		logger:   logger,
		renderer: newRenderer(out, cfg.Lang, cfg.Output),
	}, nil
}
