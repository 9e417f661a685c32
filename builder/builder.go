// Package builder runs the build pipeline: every source file is parsed, run
// through the tiers of visitors, optionally split into one file per
// declaration, and printed again.
package builder

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/NickyBoy89/pharbuild/config"
	"github.com/NickyBoy89/pharbuild/parsing"
	"github.com/NickyBoy89/pharbuild/printer"
	"github.com/NickyBoy89/pharbuild/renamer"
	"github.com/NickyBoy89/pharbuild/splitter"
	"github.com/NickyBoy89/pharbuild/visitor"
)

// ResolveImports is the import renaming mode that removes imports, and writes
// out every name in full instead
const ResolveImports = "resolve"

// DefaultRenamer is used for every renaming pass that is not configured
const DefaultRenamer = "serial"

type Options struct {
	// Number of files processed at once, anything below two processes files
	// one at a time
	Jobs int
}

// registration is a visitor to add to every traverser group
type registration struct {
	priority Priority
	build    func() visitor.Visitor
}

type Builder struct {
	Options Options

	config    config.View
	renamers  *renamer.Registry
	printers  *printer.Registry
	visitors  []registration
	printer   printer.Printer
	splitting bool
	// Group used by Process, and by Build when running on a single job
	group *TraverserGroup
}

// New creates a builder with every built-in renamer and printer. Visitors are
// only registered once Init is called
func New(cfg config.View) *Builder {
	return &Builder{
		config:   cfg,
		renamers: renamer.DefaultRegistry(),
		printers: printer.DefaultRegistry(),
		printer:  printer.Standard{},
	}
}

// Renamers allows registering extra renaming modes before Init
func (b *Builder) Renamers() *renamer.Registry {
	return b.renamers
}

// Printers allows registering extra print formats before Init
func (b *Builder) Printers() *printer.Registry {
	return b.printers
}

func (b *Builder) register(priority Priority, build func() visitor.Visitor) {
	b.visitors = append(b.visitors, registration{priority: priority, build: build})
}

// registerRenaming registers a renaming visitor, unless the configured mode is
// unknown, which disables that pass
func (b *Builder) registerRenaming(priority Priority, key string, build func(renamer.Renamer) visitor.Visitor) {
	mode := b.config.String(key, DefaultRenamer)
	if _, ok := b.renamers.New(mode); !ok {
		log.WithFields(log.Fields{
			"key":   key,
			"mode":  mode,
			"known": b.renamers.Modes(),
		}).Warn("Unknown renaming mode, disabling the pass")
		return
	}
	b.register(priority, func() visitor.Visitor {
		r, _ := b.renamers.New(mode)
		return build(r)
	})
}

// Init reads the configuration, and registers every enabled visitor
func (b *Builder) Init() {
	b.visitors = nil

	if b.config.Bool("preprocessing.comment-optimizing", true) {
		b.register(Normal, func() visitor.Visitor { return visitor.NewCommentOptimizing() })
	}

	b.registerRenaming(Normal, "preprocessing.renaming.local-variable", func(r renamer.Renamer) visitor.Visitor {
		return visitor.NewLocalVariableRenaming(r)
	})
	b.registerRenaming(Normal, "preprocessing.renaming.private-property", func(r renamer.Renamer) visitor.Visitor {
		return visitor.NewPrivatePropertyRenaming(r)
	})
	b.registerRenaming(Normal, "preprocessing.renaming.private-method", func(r renamer.Renamer) visitor.Visitor {
		return visitor.NewPrivateMethodRenaming(r)
	})
	b.registerRenaming(Normal, "preprocessing.renaming.private-const", func(r renamer.Renamer) visitor.Visitor {
		return visitor.NewPrivateConstRenaming(r)
	})

	if b.config.String("preprocessing.importing.renaming", DefaultRenamer) == ResolveImports {
		b.register(High, func() visitor.Visitor { return visitor.NewImportRemoving() })
	} else {
		b.registerRenaming(High, "preprocessing.importing.renaming", func(r renamer.Renamer) visitor.Visitor {
			return visitor.NewImportRenaming(r)
		})
		if b.config.Bool("preprocessing.importing.forcing", true) {
			b.register(Normal, func() visitor.Visitor { return visitor.NewImportForcing() })
		}
		if b.config.Bool("preprocessing.importing.grouping", true) {
			b.register(Highest, func() visitor.Visitor { return visitor.NewImportGrouping() })
		}
		if b.config.Bool("preprocessing.importing.sorting", true) {
			b.register(Highest, func() visitor.Visitor { return visitor.NewImportSorting() })
		}
	}

	b.splitting = b.config.Bool("preprocessing.spliting", true)
	b.printer = b.printers.Lookup(b.config.String("build.print-format", printer.DefaultMode))
	b.group = b.NewGroup()
}

// NewGroup creates a traverser group with its own instance of every
// registered visitor, so that groups can be used concurrently
func (b *Builder) NewGroup() *TraverserGroup {
	group := NewTraverserGroup()
	for _, reg := range b.visitors {
		group.Register(reg.priority, reg.build())
	}
	return group
}

// Output is a single printed file
type Output struct {
	Path string
	Text string
}

// Process runs the whole pipeline on one source file. The outputs are placed
// in the same directory as the source, one for every unit the file was split
// into
func (b *Builder) Process(sourcePath string, text []byte) ([]Output, error) {
	if b.group == nil {
		b.group = b.NewGroup()
	}
	return b.process(b.group, sourcePath, text)
}

func (b *Builder) process(group *TraverserGroup, sourcePath string, text []byte) ([]Output, error) {
	stmts, err := parsing.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", sourcePath, err)
	}

	stmts = group.Traverse(BeforeSplit, stmts)

	dir, file := path.Split(sourcePath)
	units := splitter.Split(stmts, strings.TrimSuffix(file, path.Ext(file)), b.splitting)
	log.WithFields(log.Fields{
		"path":  sourcePath,
		"units": len(units),
	}).Debug("Split file")

	outputs := make([]Output, 0, len(units))
	for _, unit := range units {
		for _, priority := range UnitPriorities {
			unit.Stmts = group.Traverse(priority, unit.Stmts)
		}
		outputs = append(outputs, Output{
			Path: path.Join(dir, unit.Name+".php"),
			Text: b.printer.Print(unit.Stmts),
		})
	}
	return outputs, nil
}

// Report summarizes a build, listing the paths of the inputs
type Report struct {
	// Source files that were printed, along with their outputs
	Processed []string
	Outputs   []string
	// Source files that failed to parse
	Skipped []string
	// Other files, copied without changes
	Copied []string
}

// result is what a single input turned into
type result struct {
	outputs []Output
	skipped bool
	copied  bool
}

func isSource(inputPath string) bool {
	return strings.EqualFold(path.Ext(inputPath), ".php")
}

func (b *Builder) handle(group *TraverserGroup, input Input) result {
	if !isSource(input.Path) {
		return result{copied: true}
	}

	outputs, err := b.process(group, input.Path, input.Data)
	if err != nil {
		entry := log.WithField("path", input.Path)
		var parseErr *parsing.ParseError
		if errors.As(err, &parseErr) {
			entry = entry.WithField("line", parseErr.Line)
		}
		entry.WithError(err).Warn("Skipping file that failed to parse")
		return result{skipped: true}
	}
	return result{outputs: outputs}
}

// Build runs the pipeline over every input, and writes the results to the
// sink in the order of the inputs. Files that fail to parse are skipped,
// while a failure to write stops the build
func (b *Builder) Build(ctx context.Context, inputs []Input, sink Sink) (Report, error) {
	if b.group == nil {
		b.group = b.NewGroup()
	}

	results, err := b.run(ctx, inputs)
	if err != nil {
		return Report{}, err
	}

	var report Report
	for ind, res := range results {
		input := inputs[ind]
		switch {
		case res.copied:
			if err := sink.CopyFile(input.Path, input.Data); err != nil {
				return report, fmt.Errorf("copying %s: %w", input.Path, err)
			}
			report.Copied = append(report.Copied, input.Path)
		case res.skipped:
			report.Skipped = append(report.Skipped, input.Path)
		default:
			for _, output := range res.outputs {
				if err := sink.WriteSource(output.Path, output.Text); err != nil {
					return report, fmt.Errorf("writing %s: %w", output.Path, err)
				}
				report.Outputs = append(report.Outputs, output.Path)
			}
			report.Processed = append(report.Processed, input.Path)
		}
	}
	return report, nil
}

// run processes the inputs, possibly in parallel, and returns the results in
// the same order as the inputs
func (b *Builder) run(ctx context.Context, inputs []Input) ([]result, error) {
	results := make([]result, len(inputs))

	if b.Options.Jobs <= 1 {
		for ind, input := range inputs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			results[ind] = b.handle(b.group, input)
		}
		return results, nil
	}

	// Every worker holds on to one group while it processes a file
	groups := make(chan *TraverserGroup, b.Options.Jobs)
	for i := 0; i < b.Options.Jobs; i++ {
		groups <- b.NewGroup()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.Options.Jobs)
	for ind, input := range inputs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			group := <-groups
			defer func() { groups <- group }()
			results[ind] = b.handle(group, input)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func visitorName(v visitor.Visitor) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", v), "*visitor.")
}
