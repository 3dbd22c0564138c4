// Command lineview lays out a text file and renders it to a PNG image.
//
// Usage:
//
//	lineview -input notes.txt -output notes.png -width 640 -wrap
//	lineview -input arabic.txt -engine gotext -font NotoNaskhArabic.ttf -rtl
package main

import (
	"flag"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/gogpu/textlayout"
	"github.com/gogpu/textlayout/settings"
	"github.com/gogpu/textlayout/surface"
	"github.com/gogpu/textlayout/text"
)

func main() {
	var (
		input   = flag.String("input", "-", "text file to render, - for stdin")
		output  = flag.String("output", "lineview.png", "output PNG file")
		width   = flag.Int("width", 800, "image width")
		wrap    = flag.Bool("wrap", false, "wrap lines to the image width")
		rtl     = flag.Bool("rtl", false, "right-to-left reading direction")
		align   = flag.String("align", "left", "alignment: left, right, center or justify")
		engine  = flag.String("engine", "builtin", "shaping engine: builtin or gotext")
		fonts   = flag.String("font", "", "comma-separated font files tried before the Go fonts")
		mono    = flag.Bool("mono", false, "use Go Mono as the default font")
		size    = flag.Float64("size", 0, "font size in pixels, 0 for the settings value")
		config  = flag.String("settings", "", "settings file (.yaml or .toml)")
		double  = flag.Bool("double-buffer", false, "render through an off-screen surface")
		logFile = flag.String("log", "", "log file, rotated; default stderr")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	logger := newLogger(*logFile, *verbose)
	slog.SetDefault(logger)
	textlayout.SetLogger(logger)

	err := run(options{
		input: *input, output: *output, width: *width, wrap: *wrap, rtl: *rtl,
		align: *align, engine: *engine, fonts: *fonts, mono: *mono, size: *size,
		config: *config, double: *double,
	})
	if err != nil {
		logger.Error("lineview failed", "err", err)
		fmt.Fprintln(os.Stderr, "lineview:", err)
		os.Exit(1)
	}
}

type options struct {
	input, output string
	width         int
	wrap, rtl     bool
	align         string
	engine        string
	fonts         string
	mono          bool
	size          float64
	config        string
	double        bool
}

// newLogger writes text records to stderr, or JSON records to a rotating
// file when path is set.
func newLogger(path string, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	hopts := &slog.HandlerOptions{Level: level}
	if path == "" {
		return slog.New(slog.NewTextHandler(os.Stderr, hopts))
	}
	w := &lumberjack.Logger{Filename: path, MaxSize: 10, MaxBackups: 3, MaxAge: 28}
	return slog.New(slog.NewJSONHandler(w, hopts)).With(slog.String("app", "lineview"))
}

func run(o options) error {
	src, err := readInput(o.input)
	if err != nil {
		return err
	}

	env := textlayout.DefaultEnvironment()
	if o.config != "" {
		if env, err = textlayout.NewEnvironmentFromFile(o.config); err != nil {
			return err
		}
	}

	collection, monoFamily, err := loadFonts(o.fonts)
	if err != nil {
		return err
	}

	lineStyle := textlayout.LineStyle{NumberSubstitution: textlayout.SubstituteUserSetting}
	if lineStyle.Alignment, err = parseAlignment(o.align); err != nil {
		return err
	}
	if o.rtl {
		lineStyle.ReadingDirection = textlayout.RightToLeft
	}
	if o.wrap || env.Settings().Layout.Wrap {
		lineStyle.Wrap.Mode = textlayout.WrapNormal
	}
	pres := textlayout.NewSimplePresentation()
	pres.SetDefaultLineStyle(lineStyle)
	runStyle := textlayout.RunStyle{Size: o.size}
	if o.mono {
		runStyle.FontFamily = monoFamily
	}
	pres.SetDefaultRunStyle(runStyle)

	doc := textlayout.NewSimpleDocument(src)
	r, err := textlayout.NewTextRenderer(doc, pres, newEngine(o.engine, env), collection, env,
		textlayout.WithBufferSize(max(doc.NumberOfLines(), 1)),
		textlayout.WithLayoutWidth(float64(o.width)),
		textlayout.WithDoubleBuffering(o.double))
	if err != nil {
		return err
	}
	defer r.Close()

	buf := r.LineLayoutBuffer()
	for line := range doc.NumberOfLines() {
		if _, err := buf.LineLayout(line); err != nil {
			return fmt.Errorf("line %d: %w", line+1, err)
		}
	}
	pitch := r.LinePitch()
	height := int(float64(buf.NumberOfVisualLines())*pitch + 0.5)
	slog.Debug("document laid out", "lines", doc.NumberOfLines(), "visual_lines", buf.NumberOfVisualLines())

	dst, err := surface.NewSurfaceByName(surface.ImageBackend, surface.Options{
		Width: o.width, Height: height, Background: env.Colors().Background,
	})
	if err != nil {
		return err
	}
	defer dst.Close()

	area := surface.Rect{MaxX: float64(o.width), MaxY: float64(height)}
	var y float64
	for line := range doc.NumberOfLines() {
		if err := r.RenderLine(dst, line, surface.Pt(0, y), area, area, nil); err != nil {
			return fmt.Errorf("render line %d: %w", line+1, err)
		}
		n, _ := buf.NumberOfSublinesOfLine(line)
		y += float64(n) * pitch
	}
	return writePNG(o.output, dst)
}

func readInput(path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// loadFonts returns the fonts of the comma-separated list followed by the
// Go fonts, and the family name of Go Mono.
func loadFonts(list string) (*text.Collection, string, error) {
	c := text.NewCollection()
	for _, path := range strings.Split(list, ",") {
		if path = strings.TrimSpace(path); path == "" {
			continue
		}
		s, err := text.NewFontSourceFromFile(path)
		if err != nil {
			return nil, "", err
		}
		c.Add(s)
	}
	var monoFamily string
	for _, data := range [][]byte{goregular.TTF, gomono.TTF} {
		s, err := text.NewFontSource(data)
		if err != nil {
			return nil, "", err
		}
		c.Add(s)
		monoFamily = s.Name()
	}
	return c, monoFamily, nil
}

func newEngine(name string, env *textlayout.Environment) text.Engine {
	if name == "gotext" {
		return text.NewGoTextEngine(text.WithLanguage(env.Locale().String()))
	}
	return text.NewBuiltinEngine()
}

func parseAlignment(s string) (textlayout.Alignment, error) {
	switch strings.ToLower(s) {
	case "left", "":
		return textlayout.AlignLeft, nil
	case "right":
		return textlayout.AlignRight, nil
	case "center":
		return textlayout.AlignCenter, nil
	case "justify":
		return textlayout.AlignJustify, nil
	}
	return 0, fmt.Errorf("%w: alignment %q", settings.ErrInvalidValue, s)
}

func writePNG(path string, s surface.Surface) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, s.Snapshot()); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
