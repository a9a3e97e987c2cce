package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/k0kubun/pp/v3"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Urethramancer/duo/assembler"
	"github.com/Urethramancer/duo/config"
)

var (
	configFile string
	dump       bool
	flagConfig = config.Default()

	rootCmd = &cobra.Command{
		Use:   "duoasm [options] SOURCE",
		Short: "Assemble duo source into machine code",
		Long: `Duoasm assembles one source file for the two-register duo machine.

Output is raw bytes (format "bin", written next to the source as .bin by
default) or a hex listing (format "hex", written to stdout by default).
Settings may come from a TOML file given with --config; flags override it.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}
)

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&configFile, "config", "c", "", "TOML configuration file")
	flags.Uint16Var(&flagConfig.Origin, "origin", flagConfig.Origin, "Address the program is assembled at")
	flags.StringVarP(&flagConfig.Format, "format", "f", flagConfig.Format, `Output format: "bin" or "hex"`)
	flags.StringVarP(&flagConfig.Output, "output", "o", "", "Output file (\"-\" for stdout)")
	flags.StringVar(&flagConfig.SymbolFile, "symbols", "", "Write the symbol table as YAML to this file")
	flags.StringVar(&flagConfig.LogLevel, "log-level", flagConfig.LogLevel, "Log level (debug, info, warn, error)")
	flags.BoolVar(&dump, "dump", false, "Print parsed statements and symbols to stderr")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatal(err)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}
	logrus.SetLevel(cfg.Level())

	source := args[0]
	data, err := os.ReadFile(source)
	if err != nil {
		return errors.Wrapf(err, "error reading %s", source)
	}

	asm := assembler.New(assembler.WithOrigin(cfg.Origin))
	program, err := asm.AssembleSource(string(data))
	if err != nil {
		return errors.Wrap(err, source)
	}
	logrus.WithFields(logrus.Fields{"source": source, "bytes": len(program.Code)}).Info("assembled")

	if dump {
		pp.Fprintf(os.Stderr, "Statements: %v\n", program.Statements)
		pp.Fprintf(os.Stderr, "Symbols: %v\n", program.Symbols().Symbols())
	}

	if cfg.SymbolFile != "" {
		if err := writeSymbols(cfg.SymbolFile, program.Symbols()); err != nil {
			return err
		}
	}
	return writeOutput(outputPath(source, cfg), cfg.Format, program)
}

// loadConfig reads the configuration file, if any, and applies flags the
// user set on top of it.
func loadConfig(flags *pflag.FlagSet) (*config.Config, error) {
	if configFile == "" {
		return flagConfig, flagConfig.Validate()
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if flags.Changed("origin") {
		cfg.Origin = flagConfig.Origin
	}
	if flags.Changed("format") {
		cfg.Format = flagConfig.Format
	}
	if flags.Changed("output") {
		cfg.Output = flagConfig.Output
	}
	if flags.Changed("symbols") {
		cfg.SymbolFile = flagConfig.SymbolFile
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = flagConfig.LogLevel
	}
	return cfg, cfg.Validate()
}

func outputPath(source string, cfg *config.Config) string {
	if cfg.Output != "" {
		return cfg.Output
	}
	if cfg.Format == config.FormatHex {
		return "-"
	}
	return strings.TrimSuffix(source, filepath.Ext(source)) + ".bin"
}
