package cfgtool

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/arthur-debert/cfgtool/internal/version"
	"github.com/arthur-debert/cfgtool/pkg/cobrax/topics"
	"github.com/arthur-debert/cfgtool/pkg/config"
	"github.com/arthur-debert/cfgtool/pkg/core"
	"github.com/arthur-debert/cfgtool/pkg/logging"
	"github.com/arthur-debert/cfgtool/pkg/paths"
	"github.com/arthur-debert/cfgtool/pkg/types"
	"github.com/arthur-debert/cfgtool/pkg/ui"
	"github.com/arthur-debert/cfgtool/pkg/ui/prompt"
	"github.com/arthur-debert/cfgtool/pkg/ui/terminal"
	"github.com/arthur-debert/cfgtool/pkg/ui/text"
	"github.com/charmbracelet/lipgloss"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

//go:embed topics
var topicFiles embed.FS

// globals holds the persistent flags shared by every command
type globals struct {
	verbosity int
	noColor   bool
	storePath string
	output    string
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	g := &globals{}

	rootCmd := &cobra.Command{
		Use:     "cfgtool",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if g.noColor {
				pterm.DisableColor()
			}
			logging.SetupLoggerWithOptions(logging.Options{
				Verbosity: g.verbosity,
				NoColor:   g.noColor,
			})
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf(MsgErrNoCommand)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}
	rootCmd.SetVersionTemplate(fmt.Sprintf(MsgVersionTemplate, version.Commit, version.Date))

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&g.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().BoolVar(&g.noColor, "no-color", false, MsgFlagNoColor)
	rootCmd.PersistentFlags().StringVar(&g.storePath, "store", "", MsgFlagStore)
	rootCmd.PersistentFlags().StringVarP(&g.output, "output", "o", "auto", MsgFlagOutput)

	// Disable automatic help command (we'll use our custom one from topics)
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newTrackCmd(g))
	rootCmd.AddCommand(newUpdateCmd(g))
	rootCmd.AddCommand(newSyncCmd(g))
	rootCmd.AddCommand(newStatusCmd(g))
	rootCmd.AddCommand(newHistoryCmd(g))
	rootCmd.AddCommand(newRollbackCmd(g))
	rootCmd.AddCommand(newRemoteCmd(g))
	rootCmd.AddCommand(newGenConfigCmd(g))
	rootCmd.AddCommand(newTopicsCmd())
	rootCmd.AddCommand(newCompletionCmd())

	if source, err := fs.Sub(topicFiles, "topics"); err == nil {
		renderer := topics.NewGlamourRenderer()
		renderer.Plain = func() bool { return g.noColor }
		opts := topics.Options{
			Extensions: []string{".txt", ".md"},
			Renderer:   renderer,
		}
		if err := topics.InitializeWithOptions(rootCmd, source, opts); err != nil {
			log.Warn().Err(err).Msg("Failed to load help topics")
		}
	}

	return rootCmd
}

// loadConfig builds the effective configuration: files, environment, then
// the --store flag
func (g *globals) loadConfig() (*config.LoadResult, error) {
	p, err := paths.New()
	if err != nil {
		return nil, fmt.Errorf(MsgErrInitPaths, err)
	}
	return config.Load(config.LoadOptions{
		ConfigDir: p.ConfigDir(),
		Overrides: map[string]interface{}{
			"store.path": g.storePath,
		},
	})
}

// format resolves --output against the command's writer
func (g *globals) format(w io.Writer) (ui.Format, error) {
	format, err := ui.ParseFormat(g.output)
	if err != nil {
		return format, err
	}
	if format != ui.FormatAuto {
		return format, nil
	}
	if g.noColor {
		return ui.FormatText, nil
	}
	if f, ok := w.(*os.File); ok {
		return ui.DetectFormat(f), nil
	}
	return ui.FormatText, nil
}

func (g *globals) renderer(cmd *cobra.Command) (ui.Renderer, error) {
	format, err := g.format(cmd.OutOrStdout())
	if err != nil {
		return nil, err
	}
	return ui.NewRenderer(format, cmd.OutOrStdout())
}

// palette decorates prompts the way results are rendered
func (g *globals) palette(w io.Writer) text.Palette {
	if format, err := g.format(w); err == nil && format == ui.FormatTerminal {
		return terminal.Palette(lipgloss.NewRenderer(w))
	}
	return text.PlainPalette()
}

// prompter asks on the terminal when the command reads the real stdin,
// and reads plain lines otherwise. Structured output keeps prompts on
// stderr so stdout stays a single document.
func (g *globals) prompter(cmd *cobra.Command, cfg *config.Config) types.Prompter {
	var console *prompt.Console
	format, _ := g.format(cmd.OutOrStdout())
	switch {
	case format.Structured():
		console = prompt.NewConsoleWith(cmd.InOrStdin(), cmd.ErrOrStderr(), text.PlainPalette())
	case cmd.InOrStdin() == io.Reader(os.Stdin) && cmd.OutOrStdout() == io.Writer(os.Stdout):
		console = prompt.NewConsole(g.palette(os.Stdout))
	default:
		console = prompt.NewConsoleWith(cmd.InOrStdin(), cmd.OutOrStdout(), g.palette(cmd.OutOrStdout()))
	}
	console.DefaultMessage = cfg.TrackMessage
	return console
}

// open loads the configuration and opens the store. A nil prompter makes
// the interactive operations fail instead of asking.
func (g *globals) open(cmd *cobra.Command, prompter func(*config.Config) types.Prompter) (*core.Orchestrator, error) {
	loaded, err := g.loadConfig()
	if err != nil {
		return nil, err
	}
	if loaded.UserFile != "" {
		log.Debug().Str("file", loaded.UserFile).Msg("Using configuration file")
	}

	setup := core.Setup{Config: loaded.Config}
	if prompter != nil {
		setup.Prompter = prompter(loaded.Config)
	}
	return core.Open(cmd.Context(), setup)
}

// ReportError prints an error the way the command's output format
// expects: as a document on stdout for json/yaml, styled on stderr
// otherwise
func ReportError(rootCmd *cobra.Command, err error) {
	output, _ := rootCmd.PersistentFlags().GetString("output")
	noColor, _ := rootCmd.PersistentFlags().GetBool("no-color")

	if format, perr := ui.ParseFormat(output); perr == nil && format.Structured() {
		if r, rerr := ui.NewRenderer(format, rootCmd.OutOrStdout()); rerr == nil {
			_ = r.RenderError(err)
			return
		}
	}

	format := ui.FormatText
	if !noColor {
		format = ui.DetectFormat(os.Stderr)
	}
	r, rerr := ui.NewRenderer(format, rootCmd.ErrOrStderr())
	if rerr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	_ = r.RenderError(err)
}
