package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Urethramancer/duo/disassembler"
)

var (
	origin   uint16
	logLevel string

	rootCmd = &cobra.Command{
		Use:           "duodis [options] BINARY [OUTPUT]",
		Short:         "Disassemble duo machine code into source",
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}
)

func init() {
	flags := rootCmd.Flags()
	flags.Uint16Var(&origin, "origin", 0, "Address the code was assembled at")
	flags.StringVar(&logLevel, "log-level", logrus.WarnLevel.String(), "Log level (debug, info, warn, error)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatal(err)
	}
}

func run(cmd *cobra.Command, args []string) error {
	lvl, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return errors.Wrap(err, "invalid log level")
	}
	logrus.SetLevel(lvl)

	// Read the binary file directly. Do NOT modify it.
	code, err := os.ReadFile(args[0])
	if err != nil {
		return errors.Wrapf(err, "error reading input file %s", args[0])
	}

	text, err := disassembler.Disassemble(code, origin)
	if err != nil {
		return errors.Wrap(err, "disassembly error")
	}

	if len(args) == 1 {
		fmt.Print(text)
		return nil
	}

	if err := os.WriteFile(args[1], []byte(text), 0644); err != nil {
		return errors.Wrapf(err, "error writing output file %s", args[1])
	}
	logrus.Infof("disassembly written to %s", args[1])
	return nil
}
