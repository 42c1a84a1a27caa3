// Package main is the entry point for the lyrewrite CLI
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/james-see/lyrewrite/pkg/api"
	"github.com/james-see/lyrewrite/pkg/config"
	"github.com/james-see/lyrewrite/pkg/converter"
	"github.com/james-see/lyrewrite/pkg/pitch"
	"github.com/james-see/lyrewrite/pkg/tokenize"
	"github.com/james-see/lyrewrite/pkg/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	configFile   string
	encodingName string
	languageName string
	outputFile   string
	startOffset  int
	fromPitch    string
	toPitch      string
	targetLang   string
	addLanguage  bool
	serverPort   int
	checkSketch  bool

	cfg *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "lyrewrite",
	Short: "Rewrite LilyPond source files",
	Long: `lyrewrite rewrites LilyPond source text: it converts between relative
and absolute octave entry, transposes music and translates pitch names
between languages. Everything it does not rewrite is left byte for byte.

Examples:
  lyrewrite rel2abs song.ly -o song.abs.ly
  lyrewrite abs2rel song.ly
  lyrewrite transpose song.ly --from c --to d -o -
  lyrewrite translate song.ly --to english
  lyrewrite highlight song.ly
  lyrewrite sketch song.ly -o song.mid
  lyrewrite tui
  lyrewrite serve --port 8080`,
	Version:           fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

var rel2absCmd = &cobra.Command{
	Use:   "rel2abs <input.ly>",
	Short: "Convert \\relative music to absolute pitches",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPass(cmd, args[0], converter.PassRelToAbs)
	},
}

var abs2relCmd = &cobra.Command{
	Use:   "abs2rel <input.ly>",
	Short: "Convert absolute music to \\relative music",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPass(cmd, args[0], converter.PassAbsToRel)
	},
}

var transposeCmd = &cobra.Command{
	Use:   "transpose <input.ly>",
	Short: "Transpose music by the interval between two pitches",
	Long: `Transpose music by the interval from --from to --to. The pitches are
written in the pitch language of the document, e.g. --from c --to ees.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPass(cmd, args[0], converter.PassTranspose)
	},
}

var translateCmd = &cobra.Command{
	Use:   "translate <input.ly>",
	Short: "Translate pitch names to another language",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPass(cmd, args[0], converter.PassTranslate)
	},
}

var tokensCmd = &cobra.Command{
	Use:   "tokens <input.ly>",
	Short: "Print the tokens of a LilyPond file",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokens,
}

var highlightCmd = &cobra.Command{
	Use:   "highlight <input.ly>",
	Short: "Print a LilyPond file with syntax colouring",
	Args:  cobra.ExactArgs(1),
	RunE:  runHighlight,
}

var sketchCmd = &cobra.Command{
	Use:   "sketch <input.ly>",
	Short: "Render the pitches of a LilyPond file as a MIDI file",
	Args:  cobra.ExactArgs(1),
	RunE:  runSketch,
}

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List the pitch-name languages",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range pitch.Languages() {
			fmt.Println(name)
		}
	},
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.Run(cfg)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: $LYREWRITE_CONFIG or the user config directory)")
	rootCmd.PersistentFlags().StringVar(&encodingName, "encoding", "", "File encoding: utf-8, latin1 or windows-1252")
	rootCmd.PersistentFlags().StringVar(&languageName, "language", "", "Pitch language assumed before any \\language command")

	for _, c := range []*cobra.Command{rel2absCmd, abs2relCmd, transposeCmd, translateCmd} {
		c.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path, - for stdout (default: <input>.<pass>.ly)")
		c.Flags().IntVar(&startOffset, "start", 0, "Only rewrite music from this byte offset on")
	}

	transposeCmd.Flags().StringVar(&fromPitch, "from", "", "Transpose from this pitch")
	transposeCmd.Flags().StringVar(&toPitch, "to", "", "Transpose to this pitch")
	_ = transposeCmd.MarkFlagRequired("from")
	_ = transposeCmd.MarkFlagRequired("to")

	translateCmd.Flags().StringVar(&targetLang, "to", "", "Target pitch language")
	translateCmd.Flags().BoolVar(&addLanguage, "add-language", false, "Add a \\language command if the file has none")
	_ = translateCmd.MarkFlagRequired("to")

	sketchCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output .mid file path (default: <input>.mid)")
	sketchCmd.Flags().BoolVar(&checkSketch, "check", false, "Read the written file back and report its steps")

	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 0, "Server port (default: from config, 8080)")

	rootCmd.AddCommand(rel2absCmd)
	rootCmd.AddCommand(abs2relCmd)
	rootCmd.AddCommand(transposeCmd)
	rootCmd.AddCommand(translateCmd)
	rootCmd.AddCommand(tokensCmd)
	rootCmd.AddCommand(highlightCmd)
	rootCmd.AddCommand(sketchCmd)
	rootCmd.AddCommand(languagesCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadConfig reads the config file; flags override it
func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if encodingName != "" {
		c.Encoding = encodingName
	}
	if languageName != "" {
		c.Language = languageName
	}
	if serverPort != 0 {
		c.Server.Port = serverPort
	}
	if addLanguage {
		c.AddLanguage = true
	}
	if err := c.Validate(); err != nil {
		return err
	}
	cfg = c
	return nil
}

func runPass(cmd *cobra.Command, input, name string) error {
	pass, err := converter.NewPass(name, converter.Options{
		From:        fromPitch,
		To:          toPitch,
		Language:    targetLang,
		AddLanguage: cfg.AddLanguage,
	})
	if err != nil {
		return err
	}

	conv := converter.New(pass)
	conv.SetEncoding(cfg.FileEncoding())
	conv.SetStart(startOffset)

	if outputFile == "-" {
		text, err := readSource(input)
		if err != nil {
			return err
		}
		res, err := conv.Convert(text)
		if err != nil {
			return err
		}
		data, err := cfg.FileEncoding().Encode(res.Text)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	output := outputFile
	if output == "" {
		output = converter.OutputPath(input, name)
	}
	if err := conv.ConvertFile(input, output); err != nil {
		return err
	}
	fmt.Printf("Rewrote %s -> %s (%s)\n", input, output, name)
	return nil
}

func readSource(input string) (string, error) {
	data, err := os.ReadFile(input)
	if err != nil {
		return "", fmt.Errorf("failed to read input file: %w", err)
	}
	return cfg.FileEncoding().Decode(data)
}

func runTokens(cmd *cobra.Command, args []string) error {
	text, err := readSource(args[0])
	if err != nil {
		return err
	}
	t := tokenize.New()
	t.SetLanguage(cfg.Language)
	sc := t.Tokens(text)
	for {
		tok, ok := sc.Next()
		if !ok {
			break
		}
		if tok.Kind == tokenize.Space {
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%6d  %-16s %q\n", tok.Offset, tok.Kind, tok.Text)
	}
	return nil
}

var formatStyles = map[tokenize.Format]lipgloss.Style{
	tokenize.FormatCommand:   lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAFFF")).Bold(true),
	tokenize.FormatString:    lipgloss.NewStyle().Foreground(lipgloss.Color("#D7AF5F")),
	tokenize.FormatDelimiter: lipgloss.NewStyle().Foreground(lipgloss.Color("#AF87FF")),
	tokenize.FormatComment:   lipgloss.NewStyle().Foreground(lipgloss.Color("#808080")).Italic(true),
	tokenize.FormatPitch:     lipgloss.NewStyle().Foreground(lipgloss.Color("#87D787")),
	tokenize.FormatScheme:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FF8787")),
	tokenize.FormatMarkup:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD75F")),
}

// renderLine colours the spans of one line
func renderLine(line string, spans []tokenize.Span) string {
	var b strings.Builder
	pos := 0
	for _, sp := range spans {
		if sp.Offset < pos {
			continue
		}
		b.WriteString(line[pos:sp.Offset])
		text := line[sp.Offset : sp.Offset+sp.Length]
		if style, ok := formatStyles[sp.Format]; ok {
			text = style.Render(text)
		}
		b.WriteString(text)
		pos = sp.Offset + sp.Length
	}
	b.WriteString(line[pos:])
	return b.String()
}

func runHighlight(cmd *cobra.Command, args []string) error {
	text, err := readSource(args[0])
	if err != nil {
		return err
	}
	lines := strings.Split(text, "\n")
	spans, _ := tokenize.NewHighlighter().Document(lines)
	out := cmd.OutOrStdout()
	for i, line := range lines {
		fmt.Fprintln(out, renderLine(line, spans[i]))
	}
	return nil
}

func runSketch(cmd *cobra.Command, args []string) error {
	input := args[0]
	output := outputFile
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".mid"
	}
	conv := converter.New(nil)
	conv.SetEncoding(cfg.FileEncoding())
	if err := conv.ConvertFile(input, output); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Sketched %s -> %s\n", input, output)
	if !checkSketch {
		return nil
	}

	sketch, err := converter.NewMIDIConverter().ParseMIDIFile(output)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}
	rests := 0
	for _, step := range sketch.Steps {
		if step.IsRest() {
			rests++
		}
	}
	fmt.Fprintf(out, "Track %q: %d steps, %d rests, %g bpm\n", sketch.Name, len(sketch.Steps), rests, sketch.Tempo)
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Printf("Starting API server on port %d...\n", cfg.Server.Port)
	fmt.Printf("Swagger docs available at http://localhost:%d/swagger/index.html\n", cfg.Server.Port)
	return api.StartServer(cfg)
}
