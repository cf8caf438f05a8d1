// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/unxz

// Command unxz decompresses a single .xz or .lzma stream. It owns argument
// parsing, opening/closing the input and output files, and the fuzz-mode
// output sink; all decoder semantics live in the root unxz package.
package main

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/woozymasta/unxz"
)

var xzMagic = []byte{0xFD, '7', 'z', 'X', 'Z', 0x00}

var log = logrus.New()

func main() {
	app := &cli.App{
		Name:   "unxz",
		Usage:  "decompress a single .xz or .lzma stream",
		Writer: os.Stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "input file (required)",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output file (default: standard output)",
			},
			&cli.BoolFlag{
				Name:    "fuzz-mode",
				Aliases: []string{"chaos", "fuzzing"},
				Usage:   "discard output, for fuzzing without disk writes",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "log debug details (fuzz mode, bytes written) to standard error",
			},
		},
		Action: run,
	}

	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	if err := app.Run(os.Args); err != nil {
		var decodeErr *unxz.DecodeError
		if errors.As(err, &decodeErr) {
			log.Errorf("unxz: %v", decodeErr)
			os.Exit(decodeErr.Code())
		}
		log.Errorf("unxz: %v", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.Bool("verbose") {
		log.SetLevel(logrus.DebugLevel)
	}

	in, err := os.Open(c.String("file"))
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	defer in.Close()

	var out io.Writer
	if c.Bool("fuzz-mode") {
		out = io.Discard
		log.Debug("fuzz mode: output discarded")
	} else if path := c.String("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("opening output: %w", err)
		}
		defer f.Close()
		out = f
	} else {
		out = os.Stdout
	}

	src := bufio.NewReader(in)
	if magic, err := src.Peek(len(xzMagic)); err == nil && bytes.Equal(magic, xzMagic) {
		log.Info("unpacking xz file")
	} else {
		log.Info("unpacking lzma file")
	}

	n, err := unxz.DecompressStream(out, src, nil)
	if err != nil {
		return err
	}

	log.Debugf("wrote %d decompressed bytes", n)
	return nil
}
