package cfgtool

import (
	"fmt"

	"github.com/arthur-debert/cfgtool/pkg/config"
	"github.com/arthur-debert/cfgtool/pkg/types"
	"github.com/arthur-debert/cfgtool/pkg/ui/prompt"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// render writes a command result in the selected output format
func (g *globals) render(cmd *cobra.Command, result interface{}) error {
	r, err := g.renderer(cmd)
	if err != nil {
		return err
	}
	return r.RenderResult(result)
}

func newTrackCmd(g *globals) *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:     "track <path>",
		Short:   MsgTrackShort,
		Long:    MsgTrackLong,
		Example: MsgTrackExample,
		Args:    cobra.ExactArgs(1),
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := g.open(cmd, nil)
			if err != nil {
				return err
			}

			log.Info().Str("path", args[0]).Msg("Tracking file")
			result, err := o.TrackWithMessage(cmd.Context(), args[0], message)
			if err != nil {
				return err
			}
			return g.render(cmd, result)
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", MsgFlagMessage)

	return cmd
}

func newUpdateCmd(g *globals) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "update",
		Short:   MsgUpdateShort,
		Long:    MsgUpdateLong,
		Example: MsgUpdateExample,
		Args:    cobra.NoArgs,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := g.open(cmd, func(cfg *config.Config) types.Prompter {
				if yes {
					return &prompt.Auto{}
				}
				return g.prompter(cmd, cfg)
			})
			if err != nil {
				return err
			}

			result, err := o.Update(cmd.Context())
			if err != nil {
				return err
			}
			return g.render(cmd, result)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, MsgFlagYes)

	return cmd
}

func newSyncCmd(g *globals) *cobra.Command {
	var (
		force     bool
		remoteURL string
	)

	cmd := &cobra.Command{
		Use:     "sync",
		Short:   MsgSyncShort,
		Long:    MsgSyncLong,
		Example: MsgSyncExample,
		Args:    cobra.NoArgs,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := g.open(cmd, func(cfg *config.Config) types.Prompter {
				if remoteURL != "" {
					return &prompt.Auto{URL: remoteURL}
				}
				return g.prompter(cmd, cfg)
			})
			if err != nil {
				return err
			}

			log.Info().Bool("force", force).Msg("Syncing with remote")
			result, err := o.Sync(cmd.Context(), force)
			if err != nil {
				return err
			}
			return g.render(cmd, result)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, MsgFlagForce)
	cmd.Flags().StringVar(&remoteURL, "remote-url", "", MsgFlagRemoteURL)

	return cmd
}

func newStatusCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Short:   MsgStatusShort,
		Long:    MsgStatusLong,
		Args:    cobra.NoArgs,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := g.open(cmd, nil)
			if err != nil {
				return err
			}

			result, err := o.Status(cmd.Context())
			if err != nil {
				return err
			}
			return g.render(cmd, result)
		},
	}
}

func newHistoryCmd(g *globals) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "history <path>",
		Short:   MsgHistoryShort,
		Args:    cobra.ExactArgs(1),
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := g.open(cmd, nil)
			if err != nil {
				return err
			}

			revisions, err := o.History(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}

			homePath := args[0]
			if canonical, err := o.Mapper().Canonicalize(args[0]); err == nil {
				homePath = canonical
			}
			return g.render(cmd, &types.HistoryResult{HomePath: homePath, Revisions: revisions})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, MsgFlagLimit)

	return cmd
}

func newRollbackCmd(g *globals) *cobra.Command {
	var (
		message string
		force   bool
	)

	cmd := &cobra.Command{
		Use:     "rollback <path> [revision]",
		Short:   MsgRollbackShort,
		Long:    MsgRollbackLong,
		Example: MsgRollbackExample,
		Args:    cobra.RangeArgs(1, 2),
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := g.open(cmd, nil)
			if err != nil {
				return err
			}

			revision := ""
			if len(args) == 2 {
				revision = args[1]
			}
			result, err := o.Rollback(cmd.Context(), args[0], revision, message, force)
			if err != nil {
				return err
			}
			return g.render(cmd, result)
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", MsgFlagMessage)
	cmd.Flags().BoolVar(&force, "force", false, MsgFlagRollbackForce)

	return cmd
}

func newRemoteCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "remote",
		Short:   MsgRemoteShort,
		GroupID: "core",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name> <url>",
		Short: MsgRemoteAddShort,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := g.open(cmd, nil)
			if err != nil {
				return err
			}

			result, err := o.AddRemote(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return g.render(cmd, result)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: MsgRemoteListShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := g.open(cmd, nil)
			if err != nil {
				return err
			}

			result, err := o.Remotes(cmd.Context())
			if err != nil {
				return err
			}
			return g.render(cmd, result)
		},
	})

	return cmd
}

func newGenConfigCmd(g *globals) *cobra.Command {
	var effective bool

	cmd := &cobra.Command{
		Use:     "genconfig",
		Short:   MsgGenConfigShort,
		Long:    MsgGenConfigLong,
		Args:    cobra.NoArgs,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !effective {
				fmt.Fprintln(cmd.OutOrStdout(), config.GenerateConfigContent())
				return nil
			}

			loaded, err := g.loadConfig()
			if err != nil {
				return err
			}
			content, err := config.MarshalEffective(loaded.Config)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), content)
			return nil
		},
	}

	cmd.Flags().BoolVar(&effective, "effective", false, MsgFlagEffective)

	return cmd
}

func newTopicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "topics",
		Short:   MsgTopicsShort,
		Long:    MsgTopicsLong,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Find the help command and execute it with "topics" argument
			if helpCmd, _, err := cmd.Root().Find([]string{"help"}); err == nil {
				if helpCmd.RunE != nil {
					return helpCmd.RunE(helpCmd, []string{"topics"})
				} else if helpCmd.Run != nil {
					helpCmd.Run(helpCmd, []string{"topics"})
					return nil
				}
			}
			return fmt.Errorf(MsgErrHelpAbsent)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		GroupID:               "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}
