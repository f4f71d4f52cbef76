package main

import (
	"fmt"
	"github.com/ZenLiuCN/fn"
	. "github.com/ahmetsait/BindingDynamizer"
	"github.com/ahmetsait/BindingDynamizer/batch"
	"github.com/ahmetsait/BindingDynamizer/config"
	"github.com/davecgh/go-spew/spew"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"log"
	"os"
)

const defaultOutput = "dynamic"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatalf("failure %s", err)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "dynamize"
	app.Usage = "binding dynamizer"
	app.Description = "rewrites static D bindings into version blocks selecting static linkage or run time loaded function pointers, " +
		"then prints the loader entries binding every function"
	app.ArgsUsage = "<file|directory>..."
	app.Flags = []cli.Flag{
		&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "debug logging"},
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "configuration file, default to the nearest dynamize.{yaml,yml,toml}"},
		&cli.StringFlag{Name: "prefix", Aliases: []string{"p"}, Value: DefaultPrefix, Usage: "name prefix of the functions to dynamize"},
		&cli.StringFlag{Name: "version-string", Aliases: []string{"v"}, Value: DefaultVersion, Usage: "version identifier of the static branch"},
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Value: defaultOutput, Usage: "output directory"},
		&cli.StringFlag{Name: "loader", Aliases: []string{"l"}, Usage: "write loader entries to this file instead of stdout"},
		&cli.StringFlag{Name: "ext", Aliases: []string{"e"}, Value: DefaultExtension, Usage: "extension of the sources picked up from directories"},
		&cli.BoolFlag{Name: "recursive", Aliases: []string{"r"}, Usage: "descend into sub directories"},
		&cli.BoolFlag{Name: "dry-run", Aliases: []string{"n"}, Usage: "transform without writing documents"},
	}
	app.Before = setup
	app.After = teardown
	app.Action = action
	app.Commands = []*cli.Command{
		{
			Name:      "scan",
			Action:    scan,
			Usage:     "display the spans recognized in sources",
			ArgsUsage: "<file|directory>...",
		},
	}
	return app
}

func setup(ctx *cli.Context) (err error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if ctx.Bool("debug") {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	SetLogger(l)
	return
}

func teardown(*cli.Context) error {
	_ = Logger().Sync()
	return nil
}

type options struct {
	config    Config
	output    string
	loader    string
	ext       string
	recursive bool
	dryRun    bool
}

// resolve merges defaults, the configuration file and the flags set on the command line, in that order.
func resolve(ctx *cli.Context) (o options, err error) {
	o = options{config: DefaultConfig(), output: defaultOutput, ext: DefaultExtension}
	var f *config.File
	if p := ctx.String("config"); p != "" {
		f, err = config.Load(p)
	} else {
		f, err = config.FindAndLoad(".")
	}
	if err != nil {
		return
	}
	if f != nil {
		Logger().Debug("loaded configuration", zap.String("file", f.Path))
		o.config = f.Apply(o.config)
		if f.Output != "" {
			o.output = f.Output
		}
		if f.Extension != "" {
			o.ext = f.Extension
		}
		o.loader = f.Loader
		o.recursive = f.Recursive
	}
	if ctx.IsSet("prefix") {
		o.config = o.config.WithPrefix(ctx.String("prefix"))
	}
	if ctx.IsSet("version-string") {
		c, e := o.config.WithVersion(ctx.String("version-string"))
		if e != nil {
			Logger().Error("ignored version string", zap.String("current", o.config.Version), zap.Error(e))
		} else {
			o.config = c
		}
	}
	if ctx.IsSet("output") {
		o.output = ctx.String("output")
	}
	if ctx.IsSet("loader") {
		o.loader = ctx.String("loader")
	}
	if ctx.IsSet("ext") {
		o.ext = ctx.String("ext")
	}
	if ctx.IsSet("recursive") {
		o.recursive = ctx.Bool("recursive")
	}
	o.dryRun = ctx.Bool("dry-run")
	return
}

// prepare resolves the options, compiles the matcher and expands the arguments into sources.
// The output directory is never scanned, so a second run does not pick up generated documents.
func prepare(ctx *cli.Context) (o options, m *Matcher, src []Source, err error) {
	if ctx.Args().Len() == 0 {
		err = fmt.Errorf("missing binding sources list")
		return
	}
	if o, err = resolve(ctx); err != nil {
		return
	}
	if m, err = Compile(o.config); err != nil {
		return
	}
	src, err = Sources(ctx.Args().Slice(), o.recursive, o.ext, o.output)
	return
}

func action(ctx *cli.Context) (err error) {
	o, m, src, err := prepare(ctx)
	if err != nil {
		return
	}
	dests, err := Destinations(o.output, src)
	if err != nil {
		return
	}
	b := batch.New(m)
	for i, s := range src {
		var r Result
		if r, err = b.AddFile(s); err != nil {
			return
		}
		dest := dests[i]
		if o.dryRun {
			Logger().Info("dry run", zap.String("source", s.Path), zap.String("destination", dest), zap.Int("functions", r.Functions))
			continue
		}
		if err = WriteDocument(dest, r.Text, s.Info); err != nil {
			return fmt.Errorf("write %s: %w", dest, err)
		}
		Logger().Info("dynamized", zap.String("source", s.Path), zap.String("destination", dest), zap.Int("functions", r.Functions))
	}
	Logger().Debug("processed sources", zap.Int("documents", b.Len()), zap.Int("functions", b.Functions()))
	return emit(ctx, o.loader, b.Entries())
}

func emit(ctx *cli.Context, loader string, entries []string) (err error) {
	if loader == "" {
		return WriteEntries(ctx.App.Writer, entries)
	}
	var f *os.File
	if f, err = os.Create(loader); err != nil {
		return
	}
	if err = WriteEntries(f, entries); err != nil {
		fn.IgnoreClose(f)()
		return
	}
	return f.Close()
}

func scan(ctx *cli.Context) (err error) {
	_, m, src, err := prepare(ctx)
	if err != nil {
		return
	}
	w := ctx.App.Writer
	for _, s := range src {
		var text string
		if text, err = ReadDocument(s.Path); err != nil {
			return
		}
		for _, x := range m.Matches(text) {
			switch x.Kind {
			case Function:
				fmt.Fprintf(w, "%s:%d: %s %s returns %q params %q\n", s.Path, Line(text, x.Start), x.Kind, x.Name, x.ReturnType, x.Params)
			case Module:
				fmt.Fprintf(w, "%s:%d: %s %s\n", s.Path, Line(text, x.Start), x.Kind, x.Module)
			default:
				fmt.Fprintf(w, "%s:%d: %s\n", s.Path, Line(text, x.Start), x.Kind)
			}
			if ctx.Bool("debug") {
				spew.Fdump(w, x)
			}
		}
	}
	return
}
