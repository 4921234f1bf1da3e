// Command stylec compiles stylesheets, applies them to a markup document and lays the
// document out.
//
//	stylec [-config PATH] [-env PATH] [-debug] <command> [flags] [files]
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	osfs "github.com/hack-pad/hackpadfs/os"
	"go.uber.org/zap"
	"golang.org/x/image/font"

	"style-engine/internal/commands"
	"style-engine/internal/config"
	"style-engine/internal/diag"
	"style-engine/internal/dom"
	"style-engine/internal/env"
	"style-engine/internal/fonts"
	"style-engine/internal/interp"
	"style-engine/internal/logger"
	"style-engine/internal/snapshot"
	"style-engine/internal/ui"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("stylec", flag.ContinueOnError)
	global.SetOutput(stderr)
	cfgPath := global.String("config", config.DefaultPath, "configuration file (.json or .yaml)")
	envPath := global.String("env", ".env", "file of KEY=VALUE overrides")
	debug := global.Bool("debug", false, "log debug output")
	if err := global.Parse(args); err != nil {
		return 2
	}

	if err := env.Load(*envPath); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(stderr, "config:", err)
	}
	if err := config.ApplyEnv(&cfg); err != nil {
		fmt.Fprintln(stderr, err)
	}
	if *debug {
		cfg.Debug = true
	}

	log, err := logger.New(cfg.LogPath, cfg.Debug)
	if err != nil {
		fmt.Fprintln(stderr, "logger:", err)
		return 1
	}
	defer log.Close()

	a := &app{cfg: cfg, log: log, out: stdout, errOut: stderr}
	reg := a.commands()
	err = reg.Execute(global.Args())
	switch {
	case errors.Is(err, commands.ErrUsage):
		fmt.Fprintf(stderr, "%v\n\nusage: stylec [-config PATH] [-env PATH] [-debug] <command> [flags] [files]\n\ncommands:\n", err)
		reg.Usage(stderr)
		return 2
	case errors.Is(err, flag.ErrHelp):
		return 0
	case err != nil:
		fmt.Fprintln(stderr, err)
		log.Zap().Error("command failed", zap.Error(err))
		return 1
	}
	return 0
}

type app struct {
	cfg    config.Config
	log    *logger.Logger
	out    io.Writer
	errOut io.Writer
	failed int
}

// listener prints diagnostics and logs them.
func (a *app) listener() diag.Listener {
	logged := a.log.Listener()
	return diag.ListenerFunc(func(d diag.Diagnostic) {
		if d.Severity == diag.Error {
			a.failed++
		}
		fmt.Fprintln(a.errOut, d.Formatted())
		logged.Report(d)
	})
}

// importer resolves @import on the OS filesystem below the configured root.
func (a *app) importer() (interp.Importer, error) {
	fsys := osfs.NewFS()
	root, err := a.fsPath(fsys, a.cfg.ImportRoot)
	if err != nil {
		return nil, err
	}
	return &interp.FSImporter{FS: fsys, Root: root}, nil
}

func (a *app) fsPath(fsys *osfs.FS, p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return fsys.FromOSPath(abs)
}

// sheetName names a file the way the importer does, so relative imports resolve.
func (a *app) sheetName(p string) string {
	if name, err := a.fsPath(osfs.NewFS(), p); err == nil {
		return name
	}
	return p
}

func (a *app) interpreter() (*interp.Interpreter, error) {
	imp, err := a.importer()
	if err != nil {
		return nil, err
	}
	return interp.New(interp.Options{
		Importer:      imp,
		MaxDepth:      a.cfg.MaxDepth,
		MaxIterations: a.cfg.MaxIterations,
		Listener:      a.listener(),
		Logger:        a.log.Zap(),
	}), nil
}

// engine loads the document and sheets into a document engine and lays it out.
func (a *app) engine(docPath string, sheets []string) (*ui.Engine, error) {
	imp, err := a.importer()
	if err != nil {
		return nil, err
	}
	opts := ui.Options{Config: a.cfg, Listener: a.listener(), Importer: imp, Logger: a.log.Zap()}
	if a.cfg.Font != "" {
		face, err := a.loadFont()
		if err != nil {
			return nil, err
		}
		opts.Measurer = fonts.Measurer(face, fontPixels)
		snapshot.Face = face
	}
	e := ui.New(opts)
	for _, path := range sheets {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		e.AddStylesheet(a.sheetName(path), string(src))
	}
	if docPath == "" {
		return nil, errors.New("missing -doc")
	}
	f, err := os.Open(docPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	doc, err := dom.ParseMarkup(f)
	if err != nil {
		return nil, err
	}
	e.SetDocument(doc)
	e.Update()
	return e, nil
}

// fontPixels is the size configured fonts are rasterized at; text is measured by
// scaling from it.
const fontPixels = 16

func (a *app) loadFont() (font.Face, error) {
	fsys := osfs.NewFS()
	dirs := make([]string, 0, len(a.cfg.FontDirs))
	for _, d := range a.cfg.FontDirs {
		p, err := a.fsPath(fsys, d)
		if err != nil {
			return nil, err
		}
		dirs = append(dirs, p)
	}
	name, err := fonts.Find(fsys, dirs, a.cfg.Font)
	if err != nil {
		return nil, err
	}
	a.log.Zap().Debug("font", zap.String("path", name))
	return fonts.Load(fsys, name, fontPixels)
}

// result turns reported errors into the command's error.
func (a *app) result() error {
	if a.failed > 0 {
		return fmt.Errorf("%d error(s)", a.failed)
	}
	return nil
}

func readArg(args []string) (string, string, error) {
	if len(args) != 1 {
		return "", "", fmt.Errorf("%w: expected one file", commands.ErrUsage)
	}
	src, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", err
	}
	return args[0], string(src), nil
}
