package main

import (
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/NickyBoy89/pharbuild/builder"
	"github.com/NickyBoy89/pharbuild/dot"
	"github.com/NickyBoy89/pharbuild/parsing"
	"github.com/NickyBoy89/pharbuild/phpast"
	"github.com/NickyBoy89/pharbuild/symbol"
)

var graphCmd = &cobra.Command{
	Use:   "graph [plugin directory]",
	Short: "Write the class hierarchy of a plugin as a dot graph",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runGraph,
}

func init() {
	graphCmd.Flags().StringP("out", "o", "", "File to write the graph to, defaults to stdout")
}

// ClassDependencies is a declared class-like, along with the classes it
// extends, implements, or uses traits from
type ClassDependencies struct {
	Namespace    string
	Name         string
	Dependencies []string
}

// ExtractDependencies lists every class-like declared in the file, with all
// names resolved to their fully qualified form
func ExtractDependencies(stmts []phpast.Stmt) []ClassDependencies {
	var classes []ClassDependencies
	var global []phpast.Stmt
	for _, stmt := range stmts {
		if ns, ok := stmt.(*phpast.Namespace); ok {
			classes = append(classes, extractFromScope(symbol.NewNamespaceScope(ns.Name, ns.Stmts), ns.Stmts)...)
		} else {
			global = append(global, stmt)
		}
	}
	return append(classes, extractFromScope(symbol.NewNamespaceScope("", global), global)...)
}

func extractFromScope(scope *symbol.NamespaceScope, stmts []phpast.Stmt) []ClassDependencies {
	var classes []ClassDependencies
	for _, stmt := range stmts {
		class, ok := stmt.(*phpast.Class)
		if !ok {
			continue
		}

		names := append(append([]*phpast.Name{}, class.Extends...), class.Implements...)
		for _, member := range class.Stmts {
			if traits, ok := member.(*phpast.TraitUse); ok {
				names = append(names, traits.Traits...)
			}
		}

		deps := ClassDependencies{Namespace: scope.Name, Name: scope.Qualify(class.Name)}
		for _, name := range names {
			if full, ok := scope.Resolve(name); ok {
				deps.Dependencies = append(deps.Dependencies, full)
			}
		}
		classes = append(classes, deps)
	}
	return classes
}

// DependencyGraph builds the graph of every class-like declared in the
// inputs. Files that fail to parse are left out
func DependencyGraph(inputs []builder.Input) *dot.Dotfile {
	graph := dot.New()
	for _, input := range inputs {
		if !strings.HasSuffix(strings.ToLower(input.Path), ".php") {
			continue
		}
		file := parsing.SourceFile{Name: input.Path, Source: input.Data}
		if err := file.ParseAST(); err != nil {
			log.WithError(err).Warn("Leaving out file that failed to parse")
			continue
		}
		for _, class := range ExtractDependencies(file.Stmts) {
			namespace := class.Namespace
			if namespace == "" {
				namespace = "global"
			}
			graph.Subgraph(namespace).AddNode(class.Name, class.Dependencies...)
		}
	}
	return graph
}

func runGraph(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	inputs, err := builder.DirSource(dir, false)
	if err != nil {
		return err
	}
	graph := DependencyGraph(inputs)

	out, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	if out == "" {
		_, err = graph.WriteTo(cmd.OutOrStdout())
		return err
	}

	file, err := os.Create(out)
	if err != nil {
		return err
	}
	defer file.Close()
	_, err = graph.WriteTo(file)
	return err
}
