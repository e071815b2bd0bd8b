// Copyright 2015-2017 Piprate Limited
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsongold/normalize/ld"
)

var baseIRI string

func main() {
	rootCmd := &cobra.Command{
		Use:   "jsonld",
		Short: "Expand, compact, normalize and frame JSON-LD documents",
	}
	rootCmd.PersistentFlags().StringVar(&baseIRI, "base", "", "base IRI for relative IRI resolution")

	rootCmd.AddCommand(expandCmd())
	rootCmd.AddCommand(compactCmd())
	rootCmd.AddCommand(normalizeCmd())
	rootCmd.AddCommand(frameCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func expandCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "expand <file|->",
		Short: "Expand a JSON-LD document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readDocument(args[0])
			if err != nil {
				return err
			}
			out, err := newProcessor().Expand(input)
			if err != nil {
				return err
			}
			return writeDocument(out)
		},
	}
}

func compactCmd() *cobra.Command {
	var contextPath string
	cmd := &cobra.Command{
		Use:   "compact <file|->",
		Short: "Compact a JSON-LD document against a context",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if contextPath == "" {
				return ld.NewJsonLdError(ld.InvalidInput, "compact requires --context")
			}
			input, err := readDocument(args[0])
			if err != nil {
				return err
			}
			context, err := readDocument(contextPath)
			if err != nil {
				return err
			}
			out, err := newProcessor().Compact(input, context)
			if err != nil {
				return err
			}
			return writeDocument(out)
		},
	}
	cmd.Flags().StringVar(&contextPath, "context", "", "context file (required)")
	return cmd
}

func normalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <file|->",
		Short: "Canonicalize a JSON-LD document's blank nodes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readDocument(args[0])
			if err != nil {
				return err
			}
			out, err := newProcessor().NormalizeValue(input)
			if err != nil {
				return err
			}
			return writeDocument(out)
		},
	}
}

func frameCmd() *cobra.Command {
	var framePath string
	cmd := &cobra.Command{
		Use:   "frame <file|->",
		Short: "Frame a JSON-LD document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if framePath == "" {
				return ld.NewJsonLdError(ld.InvalidInput, "frame requires --frame")
			}
			input, err := readDocument(args[0])
			if err != nil {
				return err
			}
			frame, err := readDocument(framePath)
			if err != nil {
				return err
			}
			out, err := newProcessor().Frame(input, frame)
			if err != nil {
				return err
			}
			return writeDocument(out)
		},
	}
	cmd.Flags().StringVar(&framePath, "frame", "", "frame file (required)")
	return cmd
}

func newProcessor() *ld.Processor {
	return ld.NewProcessor(ld.NewProcessorOptions(baseIRI))
}

func readDocument(path string) (ld.Value, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return ld.Null(), ld.NewJsonLdError(ld.IOError, err)
		}
		defer f.Close()
		r = f
	}
	return ld.DocumentFromReader(r)
}

func writeDocument(v ld.Value) error {
	return ld.WriteJSON(os.Stdout, v)
}
