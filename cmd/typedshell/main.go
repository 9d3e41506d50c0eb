// Package main provides the typedshell CLI: an interactive hierarchical shell
// whose command arguments are converted and results formatted by the type
// registry.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"typedshell/internal/config"
	"typedshell/internal/logger"
	"typedshell/internal/output"
	"typedshell/internal/shell"
	_ "typedshell/internal/types/extra" // semver and uuid types
	"typedshell/internal/version"
)

var (
	logLevel     string
	logFile      string
	testMode     bool
	configFile   string
	versionCheck string
	detailed     bool

	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "typedshell",
	Short: "typedshell - a hierarchical shell with typed arguments",
	Long: `typedshell walks command lines against a stack of contexts. Arguments are
converted to declared types and results are printed with named formatters.`,
	Run: runShell,
}

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start interactive shell mode",
	Run:   runShell,
}

var batchCmd = &cobra.Command{
	Use:   "batch <script>",
	Short: "Execute a script of shell lines without entering interactive mode",
	Long: `Execute each line of a script file in order, printing results as they are
produced. Execution stops at the first failing line or at quit.`,
	Args: cobra.ExactArgs(1),
	Run:  runBatch,
}

var typesCmd = &cobra.Command{
	Use:   "types [command] [args...]",
	Short: "Run a command of the types context, e.g. types convert integer 0x10",
	Long: `Run one command of the types context and print its result. Without arguments
the known types are listed.`,
	DisableFlagParsing: true,
	Run:                runTypes,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(_ *cobra.Command, _ []string) {
		if err := printVersion(os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Set log level (debug|info|warn|error) [default: info]")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to file instead of stderr")
	rootCmd.PersistentFlags().BoolVar(&testMode, "test-mode", false, "Run in deterministic test mode")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file [default: $XDG_CONFIG_HOME/typedshell/config.yaml]")

	for key, flag := range map[string]string{
		config.KeyLogLevel: "log-level",
		config.KeyLogFile:  "log-file",
		config.KeyTestMode: "test-mode",
	} {
		if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			fmt.Fprintf(os.Stderr, "Error binding %s flag: %v\n", flag, err)
			os.Exit(1)
		}
	}

	versionCmd.Flags().StringVar(&versionCheck, "check", "", "Exit non-zero unless the version satisfies this constraint, e.g. \">= 0.1\"")
	versionCmd.Flags().BoolVar(&detailed, "detailed", false, "Show build details")

	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(typesCmd)
	rootCmd.AddCommand(versionCmd)

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	var err error
	cfg, err = config.Load(viper.GetViper(), config.DefaultOptions(configFile))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFile, cfg.TestMode); err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring logger: %v\n", err)
		os.Exit(1)
	}
	switch {
	case cfg.TestMode:
		output.ConfigureGlobal(output.TestMode())
	case output.SupportsColor():
		output.ConfigureGlobal(output.WithStyles(output.DefaultTheme()))
	}
}

func newShell() *shell.Shell {
	m, err := shell.NewMachine(cfg, output.GetGlobalPrinter())
	if err != nil {
		logger.Fatal("Failed to create shell", "error", err)
	}
	return shell.New(m, shell.WithPrompt(cfg.Prompt))
}

func runShell(_ *cobra.Command, _ []string) {
	logger.Info("Starting typedshell", "version", version.GetBaseVersion())

	s := newShell()
	output.Println(version.GetFormattedVersion())
	output.Println("Type 'help' for the functions of the current context or 'quit' to exit.")
	s.Run(cfg.HistoryFile)
}

func runBatch(_ *cobra.Command, args []string) {
	scriptPath := args[0]
	logger.Info("Starting typedshell batch mode", "version", version.GetBaseVersion(), "script", scriptPath)

	if err := executeScript(newShell(), scriptPath); err != nil {
		logger.Fatal("Script execution failed", "script", scriptPath, "error", err)
	}
	logger.Info("Script executed successfully", "script", scriptPath)
}

func executeScript(s *shell.Shell, scriptPath string) error {
	info, err := os.Stat(scriptPath)
	if err != nil {
		return fmt.Errorf("script file does not exist: %s", scriptPath)
	}
	if info.IsDir() {
		return fmt.Errorf("script path is a directory: %s", scriptPath)
	}

	f, err := os.Open(scriptPath)
	if err != nil {
		return fmt.Errorf("failed to open script %s: %w", scriptPath, err)
	}
	defer func() { _ = f.Close() }()
	return s.RunScript(f)
}

func runTypes(_ *cobra.Command, args []string) {
	if err := executeTypes(newShell(), args); err != nil {
		output.Error(err.Error())
		os.Exit(1)
	}
}

// executeTypes enters the types context and runs one command in it.
func executeTypes(s *shell.Shell, args []string) error {
	if len(args) == 0 {
		args = []string{"list"}
	}
	_, err := s.Machine().Invoke(append([]string{"types"}, args...))
	return err
}

func printVersion(w io.Writer) error {
	if versionCheck != "" {
		ok, err := version.Satisfies(versionCheck)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("version %s does not satisfy %s", version.GetBaseVersion(), versionCheck)
		}
	}
	if detailed {
		_, err := fmt.Fprintln(w, version.GetDetailedVersion())
		return err
	}
	_, err := fmt.Fprintln(w, version.GetFormattedVersion())
	return err
}
