package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/Urethramancer/duo/assembler"
	"github.com/Urethramancer/duo/config"
)

// symbolEntry is one line of the YAML symbol map.
type symbolEntry struct {
	Name  string `yaml:"name"`
	Kind  string `yaml:"kind"`
	Value string `yaml:"value"`
	Line  int    `yaml:"line"`
}

func writeOutput(path, format string, program *assembler.Program) error {
	var w io.Writer = os.Stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return errors.Wrapf(err, "error creating %s", path)
		}
		defer f.Close()
		w = f
	}

	var err error
	if format == config.FormatHex {
		err = writeHex(w, program.Code, program.Origin)
	} else {
		_, err = w.Write(program.Code)
	}
	if err != nil {
		return errors.Wrapf(err, "error writing %s", path)
	}
	if path != "-" {
		logrus.Infof("wrote %d bytes to %s", len(program.Code), path)
	}
	return nil
}

// writeHex prints the code as address-prefixed rows of 16 bytes.
func writeHex(w io.Writer, code []byte, origin uint16) error {
	for i := 0; i < len(code); i += 16 {
		end := i + 16
		if end > len(code) {
			end = len(code)
		}
		if _, err := fmt.Fprintf(w, "%04x: % x\n", int(origin)+i, code[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func writeSymbols(path string, st *assembler.SymbolTable) error {
	symbols := st.ByValue()
	entries := make([]symbolEntry, len(symbols))
	for i, s := range symbols {
		kind := "address"
		if s.Type == assembler.SymbolConstant {
			kind = "constant"
		}
		entries[i] = symbolEntry{Name: s.Name, Kind: kind, Value: fmt.Sprintf("0x%04x", s.Value), Line: s.Line}
	}

	data, err := yaml.Marshal(entries)
	if err != nil {
		return errors.Wrap(err, "error encoding symbol table")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "error writing %s", path)
	}
	return nil
}
