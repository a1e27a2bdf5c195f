// Copyright 2026 Gustavo C. Viegas. All rights reserved.

// dmxdump decodes binary DMX files and prints their
// element graphs.
//
// Files may be compressed with zstd, lz4 or gzip. Each file
// is decoded independently: a file that fails to decode is
// reported on stderr and the remaining files are still
// processed. The exit status is 1 if any file failed.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/gviegas/dmx/dmx"
	"github.com/gviegas/dmx/export"
	"github.com/gviegas/dmx/source"
)

// Exit statuses.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// dumper holds the options of one invocation.
type dumper struct {
	stdout  io.Writer
	stderr  io.Writer
	log     *slog.Logger
	text    bool
	format  export.Format
	strict  bool
	element string
	banner  lipgloss.Style
	printer dmx.Printer
}

func run(args []string, stdout, stderr io.Writer) int {
	var (
		format  string
		color   string
		d       = dumper{stdout: stdout, stderr: stderr}
		verbose bool
	)

	flagSet := pflag.NewFlagSet("dmxdump", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVarP(&format, "format", "f", "text", "output format: text, json, yaml or cbor")
	flagSet.BoolVarP(&d.strict, "strict", "s", false, "fail if any attribute could not be resolved")
	flagSet.StringVarP(&d.element, "element", "e", "", "print only elements with this name (text format)")
	flagSet.StringVar(&color, "color", "auto", "color the file banners: auto, always or never")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log decoding details")
	flagSet.Bool("version", false, "print version and exit")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet, stderr)
			return exitOK
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet, stderr)
		return exitOK
	}
	if v, _ := flagSet.GetBool("version"); v {
		fmt.Fprintln(stdout, "dmxdump", version())
		return exitOK
	}

	if format == "text" {
		d.text = true
	} else {
		f, err := export.ParseFormat(format)
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return exitUsage
		}
		d.format = f
	}
	profile, err := colorProfile(color, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}
	renderer := lipgloss.NewRenderer(stdout, termenv.WithProfile(profile))
	renderer.SetColorProfile(profile)
	d.banner = renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	d.log = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	files := flagSet.Args()
	if len(files) == 0 {
		fmt.Fprintln(stderr, "error: no input files")
		printHelp(flagSet, stderr)
		return exitUsage
	}

	status := exitOK
	for _, name := range files {
		if err := d.dump(name); err != nil {
			fmt.Fprintf(stderr, "error: %s: %v\n", name, err)
			status = exitFailure
		}
	}
	return status
}

// colorProfile resolves the --color flag.
func colorProfile(mode string, w io.Writer) (termenv.Profile, error) {
	switch mode {
	case "always":
		return termenv.ANSI256, nil
	case "never":
		return termenv.Ascii, nil
	case "auto":
		if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return termenv.ANSI256, nil
		}
		return termenv.Ascii, nil
	}
	return termenv.Ascii, fmt.Errorf("invalid --color value %q", mode)
}

// dump decodes and prints a single file.
func (d *dumper) dump(name string) error {
	f, err := source.Open(name)
	if err != nil {
		return err
	}
	dec := dmx.Decoder{Logger: d.log.With("file", name)}
	g, err := dec.Decode(f.Reader)
	cerr := f.Close()
	if err != nil {
		return err
	}
	if cerr != nil {
		return cerr
	}

	if d.text {
		hdr := g.Header()
		fmt.Fprintln(d.stdout, d.banner.Render(fmt.Sprintf("==> %s (%s %d, %s %d, %s, %d elements)",
			name, hdr.Encoding, hdr.EncodingVersion, hdr.Format, hdr.FormatVersion, f.Compression(), g.Len())))
		if d.element == "" {
			if err := d.printer.Fprint(d.stdout, g.Root()); err != nil {
				return err
			}
			fmt.Fprintln(d.stdout)
		} else {
			for _, e := range g.Elements() {
				if e.Name() != d.element {
					continue
				}
				if err := d.printer.Fprint(d.stdout, e); err != nil {
					return err
				}
				fmt.Fprintln(d.stdout)
			}
		}
	} else if err := export.Encode(d.stdout, export.FromGraph(g), d.format); err != nil {
		return err
	}

	if d.strict {
		var bad []string
		for _, a := range g.Invalid() {
			bad = append(bad, a.Owner().Name()+"."+a.Name())
		}
		if len(bad) > 0 {
			return fmt.Errorf("%d unresolved attributes: %s", len(bad), strings.Join(bad, ", "))
		}
	}
	return nil
}

func version() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}

func printHelp(flagSet *pflag.FlagSet, w io.Writer) {
	fmt.Fprintf(w, `dmxdump prints the contents of binary DMX files.

Files may be compressed with zstd, lz4 or gzip.
Element references are followed depth-first; each element
and attribute is printed once, so cyclic graphs terminate.

Usage:
  dmxdump [flags] FILE...

Examples:
  # Print the graph of a model
  dmxdump model.dmx

  # Export every element as JSON
  dmxdump -f json model.dmx

  # Check that every reference resolves
  dmxdump --strict -f yaml *.dmx > /dev/null

Flags:
`)
	flagSet.SetOutput(w)
	flagSet.PrintDefaults()
}
