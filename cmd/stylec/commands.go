package main

import (
	"flag"
	"fmt"
	"strings"

	"style-engine/internal/ast"
	"style-engine/internal/commands"
	"style-engine/internal/dom"
	"style-engine/internal/layout"
	"style-engine/internal/parser"
	"style-engine/internal/snapshot"
	"style-engine/internal/ui"
)

func (a *app) commands() *commands.Registry {
	r := commands.NewRegistry()
	flags := func(name string) *flag.FlagSet {
		fs := flag.NewFlagSet(name, flag.ContinueOnError)
		fs.SetOutput(a.errOut)
		return fs
	}

	r.Register("parse", "print the syntax tree of a stylesheet", flags("parse"), a.parse)
	r.Register("compile", "print the rules a stylesheet compiles to", flags("compile"), a.compile)

	fs := flags("style")
	styleDoc := fs.String("doc", "", "markup document")
	r.Register("style", "print the computed style of every element", fs, func(args []string) error {
		return a.style(*styleDoc, args)
	})

	fs = flags("layout")
	layoutDoc := fs.String("doc", "", "markup document")
	r.Register("layout", "print the box tree with positions and sizes", fs, func(args []string) error {
		return a.layout(*layoutDoc, args)
	})

	fs = flags("render")
	renderDoc := fs.String("doc", "", "markup document")
	out := fs.String("o", "layout.png", "output PNG")
	scale := fs.Int("scale", 1, "pixel scale")
	r.Register("render", "draw the laid-out document to a PNG", fs, func(args []string) error {
		return a.render(*renderDoc, *out, *scale, args)
	})

	fs = flags("preview")
	previewDoc := fs.String("doc", "", "markup document")
	r.Register("preview", "open the document in a window", fs, func(args []string) error {
		return a.preview(*previewDoc, args)
	})
	return r
}

func (a *app) parse(args []string) error {
	name, src, err := readArg(args)
	if err != nil {
		return err
	}
	sheet, _ := parser.ParseStylesheet(name, src, a.listener())
	fmt.Fprint(a.out, ast.Print(sheet))
	return a.result()
}

func (a *app) compile(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: expected stylesheets", commands.ErrUsage)
	}
	in, err := a.interpreter()
	if err != nil {
		return err
	}
	for _, path := range args {
		_, src, err := readArg([]string{path})
		if err != nil {
			return err
		}
		sheet, _ := in.Compile(a.sheetName(path), src)
		fmt.Fprint(a.out, sheet.String())
	}
	return a.result()
}

func (a *app) style(doc string, sheets []string) error {
	e, err := a.engine(doc, sheets)
	if err != nil {
		return err
	}
	var walk func(el *dom.Element, depth int)
	walk = func(el *dom.Element, depth int) {
		fmt.Fprintf(a.out, "%s%s { %s }\n", strings.Repeat("  ", depth), el, strings.Join(ui.Properties(e, el), "; "))
		for _, c := range el.Children() {
			walk(c, depth+1)
		}
	}
	walk(e.Document().Root(), 0)
	return a.result()
}

func (a *app) layout(doc string, sheets []string) error {
	e, err := a.engine(doc, sheets)
	if err != nil {
		return err
	}
	if err := layout.Dump(a.out, e.Root()); err != nil {
		return err
	}
	return a.result()
}

func (a *app) render(doc, out string, scale int, sheets []string) error {
	e, err := a.engine(doc, sheets)
	if err != nil {
		return err
	}
	img := snapshot.Render(e.Root(), int(a.cfg.ViewportWidth), int(a.cfg.ViewportHeight))
	if err := snapshot.Save(out, snapshot.Scale(img, scale)); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "wrote", out)
	return a.result()
}
