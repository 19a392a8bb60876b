// Command jpick pretty-prints JSON documents and optionally picks a
// subtree out of them.
//
//	jpick [options] [file...]
//
// With no file arguments the document is read from stdin.  Files ending in
// .gz or .zst are decompressed transparently.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/davral/jsonpick/dom"
)

func main() {
	var (
		indent    int
		compact   bool
		decimals  int
		extended  bool
		colorMode string
		path      string
		maxDepth  int
	)

	flag.IntVar(&indent, "indent", 2, "spaces per indentation level")
	flag.BoolVar(&compact, "compact", false, "output on a single line")
	flag.IntVar(&decimals, "decimals", -1, "fixed number of fraction digits (-1 for shortest)")
	flag.BoolVar(&extended, "extended", false, "accept NaN, Infinity and -Infinity literals")
	flag.StringVar(&colorMode, "color", "auto", "colorize output: auto, always, never")
	flag.StringVar(&path, "path", "", "print only the subtree at this dot-separated member path")
	flag.IntVar(&maxDepth, "maxdepth", 0, "maximum nesting depth (0 for the default)")
	flag.Parse()

	var colorizer *dom.Colorizer
	switch colorMode {
	case "always":
		colorizer = &defaultColorizer
	case "never":
	case "auto":
		if isatty.IsTerminal(os.Stdout.Fd()) {
			colorizer = &defaultColorizer
		}
	default:
		fatalError("invalid -color value: %q (use auto, always, or never)", colorMode)
	}

	var stdout io.Writer = os.Stdout
	if colorizer != nil {
		stdout = colorable.NewColorableStdout()
	}
	out := bufio.NewWriter(stdout)
	defer out.Flush()

	indentSize := indent
	if compact {
		indentSize = -1
	}
	encoder := dom.Encoder{
		Printer:   &dom.DefaultPrinter{Writer: out, IndentSize: indentSize},
		Colorizer: colorizer,
		Decimals:  decimals,
		Compact:   compact,
	}
	parser := dom.Parser{MaxDepth: maxDepth, ExtendedLiterals: extended}

	sources := flag.Args()
	if len(sources) == 0 {
		sources = []string{"-"}
	}
	for _, src := range sources {
		data, err := readSource(src)
		if err != nil {
			fatalError("%s: %s", src, err)
		}
		root, err := parser.Parse(data)
		if err != nil {
			fatalError("%s: %s", src, err)
		}
		if path != "" {
			root = root.Dig(strings.Split(path, ".")...)
			if root == nil {
				fatalError("%s: no value at path %q", src, path)
			}
		}
		if err := encoder.Encode(root); err != nil {
			fatalError("%s", err)
		}
		fmt.Fprintln(out)
	}
}

// readSource slurps a file, "-" meaning stdin, decompressing .gz and .zst
// files on the fly.
func readSource(name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(os.Stdin)
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	switch {
	case strings.HasSuffix(name, ".gz"):
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		r = gz
	case strings.HasSuffix(name, ".zst"):
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		r = zr
	}
	return io.ReadAll(r)
}

func fatalError(msg string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, msg+"\n", args...)
	os.Exit(1)
}

// Some color ANSI codes
var (
	reset      = []byte("\033[0m")
	yellow     = []byte("\033[33m")
	white      = []byte("\033[37m")
	green      = []byte("\033[32m")
	brightBlue = []byte("\033[34;1m")
)

var defaultColorizer = dom.Colorizer{
	KeyColorCode:     brightBlue,
	StringColorCode:  yellow,
	NumberColorCode:  white,
	LiteralColorCode: green,
	ResetCode:        reset,
}
