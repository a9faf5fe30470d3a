package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/mutools/mubundle/depgraph"
	"github.com/mutools/mubundle/emit"
	"github.com/mutools/mubundle/manifest"
)

func main() {
	var (
		manifestPath = flag.String("manifest", "bundle.toml", "Path to bundle manifest")
		output       = flag.String("o", "", "Output file (overrides the manifest)")
		strict       = flag.Bool("strict", false, "Abort composition on version conflicts")
		quiet        = flag.Bool("quiet-version-warnings", false, "Omit version-mismatch diagnostics from the output")
		verbose      = flag.Bool("v", false, "Verbose logging")
		list         = flag.Bool("list", false, "Print the resolved emission order and exit")
		interactive  = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		emit.SetLogger(logger)
	}

	if *interactive {
		if err := runInteractive(*manifestPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*manifestPath, *output, *strict, *quiet, *list); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(manifestPath, output string, strict, quiet, listOnly bool) error {
	b, err := manifest.Load(manifestPath)
	if err != nil {
		return err
	}

	if strict {
		b.Options.Strict = true
	}
	if quiet {
		b.Options.SuppressVersionDiagnostics = true
	}
	if output != "" {
		b.Output = output
	}

	g, err := depgraph.Build(b.Root)
	if err != nil {
		return err
	}

	if listOnly {
		printGraph(g)
		return nil
	}

	out, err := emit.Compose(g, b.Options)
	if err != nil {
		return err
	}

	for _, c := range out.Conflicts {
		fmt.Fprintf(os.Stderr, "warning: version mismatch for %s: composed at %s, requested %s\n",
			c.Name, c.Selected.String(), strings.Join(c.VersionStrings(), ", "))
	}

	if err := os.WriteFile(b.Output, []byte(out.Text), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	fmt.Printf("%s: %d libraries, %d bytes\n", b.Output, len(out.Order), len(out.Text))
	return nil
}

func printGraph(g *depgraph.Graph) {
	conflicts := depgraph.Reconcile(g)

	fmt.Printf("Root: %s\n", g.Root().Name)
	fmt.Printf("Libraries: %d\n\nEmission order:\n", g.Len())
	for _, e := range g.Edges() {
		fmt.Printf("  %s -> %s\n", e.Dependent, e.Dependency)
	}
	fmt.Println()
	for _, name := range g.Order() {
		d, _ := g.Lookup(name)
		marker := ""
		if _, ok := depgraph.ConflictFor(conflicts, name); ok {
			marker = "  (version conflict)"
		}
		fmt.Printf("  %s %s%s\n", name, d.Version.String(), marker)
	}

	if len(conflicts) > 0 {
		fmt.Printf("\nConflicts:\n")
		for _, c := range conflicts {
			fmt.Printf("  %s: composed at %s, requested %s\n",
				c.Name, c.Selected.String(), strings.Join(c.VersionStrings(), ", "))
		}
	}
}
