package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	pkgerrors "github.com/pkg/errors"

	"github.com/Matthew-McRaven/pep10/config"
	"github.com/Matthew-McRaven/pep10/encoder"
	"github.com/Matthew-McRaven/pep10/loader"
	"github.com/Matthew-McRaven/pep10/parser"
	"github.com/Matthew-McRaven/pep10/tools"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"     // Version number (set by git tag at build time)
	Commit  = "unknown" // Git commit hash
	Date    = "unknown" // Build date
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		objectFile  = flag.String("o", "", "Object code output file (default: input with object extension)")
		listingFile = flag.String("l", "", "Listing output file (default: input with listing extension)")
		printSource = flag.Bool("s", false, "Print canonical source to stdout and exit")
		noListing   = flag.Bool("no-listing", false, "Do not write a listing file")
		noOS        = flag.Bool("no-os", false, "Do not preload OS symbols and macros")
		configFile  = flag.String("config", "", "Config file path (default: platform config dir)")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <input-file>\n\nOptions:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("pep10 %s (commit %s, built %s)\n", Version, Commit, Date)
		return
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	inputFile := flag.Arg(0)

	cfg, err := loadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	source, err := os.ReadFile(inputFile) // #nosec G304 -- user-supplied source path
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", pkgerrors.Wrapf(err, "reading %s", inputFile))
		os.Exit(1)
	}

	if *printSource {
		formatted, err := tools.NewFormatter(nil, nil).Format(string(source))
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(formatted)
		return
	}

	withOS := !*noOS && (cfg.Assembler.OSSymbols || cfg.Assembler.OSMacros)
	ir, diagnostics := assemble(string(source), withOS)

	// The listing is always produced, even for a failed assembly.
	if !*noListing && cfg.Output.EmitListing {
		path := *listingFile
		if path == "" {
			path = replaceExtension(inputFile, cfg.Output.ListingExtension)
		}
		listing := strings.Join(encoder.Listing(ir), "\n") + "\n"
		if err := os.WriteFile(path, []byte(listing), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", pkgerrors.Wrapf(err, "writing listing %s", path))
			os.Exit(1)
		}
	}

	if len(diagnostics) > 0 {
		for _, diag := range diagnostics {
			fmt.Fprintln(os.Stderr, diag)
		}
		os.Exit(1)
	}

	path := *objectFile
	if path == "" {
		path = replaceExtension(inputFile, cfg.Output.ObjectExtension)
	}
	if err := loader.WriteFile(path, encoder.ObjectCode(ir), cfg.Output.BytesPerLine); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// assemble runs the pipeline over source and returns the generated IR plus
// every parse and generation diagnostic. A non-empty diagnostic list means
// object code must not be emitted.
func assemble(source string, withOS bool) ([]parser.Node, []string) {
	symbols := parser.NewSymbolTable()
	macros := parser.NewMacroRegistry()
	if withOS {
		parser.AddOSSymbols(symbols)
		parser.AddOSMacros(macros)
	}

	p := parser.NewParser(parser.NormalizeSource(source), symbols, macros)
	var tree []parser.Node
	for {
		node, ok := p.Next()
		if !ok {
			break
		}
		tree = append(tree, node)
	}

	var diagnostics []string
	for _, parseErr := range p.Errors().Errors {
		diagnostics = append(diagnostics, parseErr.Error())
	}
	// Errors inside expanded macro bodies are recorded by the nested parser,
	// not this one; surface them from the tree.
	for _, node := range tree {
		if macro, ok := node.(*parser.MacroNode); ok {
			for _, errNode := range parser.CollectErrors(macro.Body) {
				diagnostics = append(diagnostics, errNode.Source())
			}
		}
	}

	ir, genErrs := encoder.Generate(tree)
	diagnostics = append(diagnostics, genErrs...)
	return ir, diagnostics
}

// replaceExtension swaps the file extension, appending when there is none.
func replaceExtension(path, ext string) string {
	if i := strings.LastIndexByte(path, '.'); i > strings.LastIndexByte(path, '/') {
		return path[:i] + ext
	}
	return path + ext
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFrom(path)
}
