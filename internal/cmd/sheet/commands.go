package sheet

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/louisbranch/voidsheet/internal/services/sheet/app"
	"github.com/louisbranch/voidsheet/internal/services/sheet/fixture"
	"github.com/louisbranch/voidsheet/internal/tools/scenario"
)

func loadSheet(path string, alreadyHit bool) (fixture.Sheet, error) {
	sheet, err := fixture.LoadFile(path)
	if err != nil {
		return fixture.Sheet{}, err
	}
	if alreadyHit {
		sheet.Combat.AlreadyHit = true
	}
	return sheet, nil
}

func newDeriveCommand(c *cli) *cobra.Command {
	var alreadyHit bool
	cmd := &cobra.Command{
		Use:   "derive <document>",
		Short: "Derive every computed value for an actor document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sheet, err := loadSheet(args[0], alreadyHit)
			if err != nil {
				return err
			}
			result, err := c.rt.service.Derive(cmd.Context(), sheet)
			if err != nil {
				return err
			}
			return c.rt.renderer.derived(result)
		},
	}
	cmd.Flags().BoolVar(&alreadyHit, "already-hit", false, "actor was already hit this round")
	return cmd
}

func newBindingsCommand(c *cli) *cobra.Command {
	var alreadyHit bool
	cmd := &cobra.Command{
		Use:   "bindings <document>",
		Short: "Print the roll variable table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sheet, err := loadSheet(args[0], alreadyHit)
			if err != nil {
				return err
			}
			result, err := c.rt.service.Derive(cmd.Context(), sheet)
			if err != nil {
				return err
			}
			return c.rt.renderer.bindings(result.Bindings)
		},
	}
	cmd.Flags().BoolVar(&alreadyHit, "already-hit", false, "actor was already hit this round")
	return cmd
}

func newExplainCommand(c *cli) *cobra.Command {
	var alreadyHit bool
	cmd := &cobra.Command{
		Use:   "explain <document> <target>",
		Short: "Explain how a characteristic, skill or armour location was computed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sheet, err := loadSheet(args[0], alreadyHit)
			if err != nil {
				return err
			}
			explanation, err := c.rt.service.Explain(cmd.Context(), sheet, args[1])
			if err != nil {
				return err
			}
			return c.rt.renderer.explanation(explanation)
		},
	}
	cmd.Flags().BoolVar(&alreadyHit, "already-hit", false, "actor was already hit this round")
	return cmd
}

func newWatchCommand(c *cli) *cobra.Command {
	debounce := c.cfg.Debounce
	cmd := &cobra.Command{
		Use:   "watch <document>",
		Short: "Re-derive a document every time it is saved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := c.rt
			return rt.service.Watch(cmd.Context(), args[0], debounce, func(result app.Result, err error) {
				if err != nil {
					rt.renderer.failure(err)
					return
				}
				if err := rt.renderer.derived(result); err != nil {
					rt.renderer.failure(err)
				}
			})
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", debounce, "quiet period before re-deriving")
	return cmd
}

func newScenarioCommand(c *cli) *cobra.Command {
	cfg := scenario.DefaultConfig()
	var logOnly bool
	cmd := &cobra.Command{
		Use:   "scenario <script.lua>",
		Short: "Run a Lua scenario against the derive service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := c.rt
			if logOnly {
				cfg.Assertions = scenario.AssertionLogOnly
			}
			cfg.Logger = rt.logger
			if err := scenario.RunFile(cmd.Context(), cfg, rt.service, args[0]); err != nil {
				return err
			}
			return rt.renderer.scenarioPassed(args[0])
		},
	}
	cmd.Flags().BoolVar(&logOnly, "log-only", false, "log failed expectations instead of stopping")
	cmd.Flags().BoolVar(&cfg.Verbose, "verbose", false, "log every step")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "timeout per step")
	return cmd
}

func newProjectionsCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projections",
		Short: "Inspect stored derive results",
	}
	requireStore := func() (*runtime, error) {
		if c.rt.store == nil {
			return nil, fmt.Errorf("projections need --db or VOIDSHEET_DB_PATH")
		}
		return c.rt, nil
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List stored projections",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				rt, err := requireStore()
				if err != nil {
					return err
				}
				projections, err := rt.store.ListProjections(cmd.Context())
				if err != nil {
					return err
				}
				return rt.renderer.projections(projections)
			},
		},
		&cobra.Command{
			Use:   "show <actor-id>",
			Short: "Print one stored projection",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				rt, err := requireStore()
				if err != nil {
					return err
				}
				projection, err := rt.store.GetProjection(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return rt.renderer.projection(projection)
			},
		},
		&cobra.Command{
			Use:   "delete <actor-id>",
			Short: "Remove a stored projection",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				rt, err := requireStore()
				if err != nil {
					return err
				}
				if err := rt.store.DeleteProjection(cmd.Context(), args[0]); err != nil {
					return err
				}
				return rt.renderer.deleted(args[0])
			},
		},
	)
	return cmd
}

func newRulesCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Describe the derivation formulas and tables",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return c.rt.renderer.rules()
		},
	}
}
