package main

import (
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/benoitkugler/svgimage"
	"github.com/benoitkugler/svgimage/stylesheet"
	"github.com/benoitkugler/svgimage/svgicon"
	"github.com/tdewolff/argp"
)

type Render struct {
	Scale   float64 `short:"s" default:"1" desc:"Scale factor"`
	Output  string  `short:"o" desc:"Output PNG file, defaults to the input name"`
	Verbose bool    `short:"v" desc:"Log diagnostics to stderr"`
	Input   string  `index:"0" desc:"Input SVG file"`
}

type Fonts struct {
	Verbose bool   `short:"v" desc:"Log diagnostics to stderr"`
	Input   string `index:"0" desc:"Input SVG file"`
}

func main() {
	root := argp.NewCmd(&Render{}, "Render SVG files with embedded font faces to PNG")
	root.AddCmd(&Fonts{}, "fonts", "List the font faces declared by an SVG file")
	root.Parse()
	root.PrintHelp()
}

func newParser(verbose bool) *svgimage.Parser {
	cfg := svgimage.Config{StyleParser: stylesheet.Parse}
	if verbose {
		cfg.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		cfg.ErrorMode = svgicon.WarnErrorMode
	}
	return svgimage.NewParser(cfg)
}

func readImage(verbose bool, input string) (*svgimage.Image, error) {
	b, err := os.ReadFile(input)
	if err != nil {
		return nil, err
	}
	img := newParser(verbose).Parse(string(b))
	if img.Document() == nil {
		return nil, fmt.Errorf("%s: invalid SVG document", input)
	}
	return img, nil
}

func (cmd *Render) Run() error {
	if cmd.Input == "" {
		return argp.ShowUsage
	} else if cmd.Scale <= 0 {
		fmt.Println("ERROR: scale must be positive")
		return argp.ShowUsage
	}

	img, err := readImage(cmd.Verbose, cmd.Input)
	if err != nil {
		return err
	}
	img.SetScale(cmd.Scale)
	bitmap := img.Image()
	if bitmap == nil {
		return fmt.Errorf("%s: nothing to render", cmd.Input)
	}

	output := cmd.Output
	if output == "" {
		output = strings.TrimSuffix(cmd.Input, filepath.Ext(cmd.Input)) + ".png"
	}
	f, err := os.Create(output)
	if err != nil {
		return err
	}
	if err := png.Encode(f, bitmap.Image); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	w, h := bitmap.PixelSize()
	fmt.Printf("%s: %dx%d pixels (scale %g)\n", output, w, h, bitmap.Scale)
	return nil
}

func (cmd *Fonts) Run() error {
	if cmd.Input == "" {
		return argp.ShowUsage
	}
	img, err := readImage(cmd.Verbose, cmd.Input)
	if err != nil {
		return err
	}
	for _, family := range img.Fonts().Families() {
		name, _ := img.Resolve(family)
		fmt.Printf("%s\t%s\n", family, name)
	}
	return nil
}
