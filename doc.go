// Package textlayout lays out and draws the lines of a text document with
// complex-script support: bidirectional text, script and font fallback,
// tab expansion, line wrapping and justification.
//
// # Overview
//
// A logical line is split into [TextRun]s, each with one script, one bidi
// level and one font. Runs are shaped into glyphs by a [text.Engine],
// positioned, wrapped into sublines and reordered visually. The result is
// a [LineLayout], which answers geometric queries (bounds, caret
// locations, hit testing) and draws itself on a [surface.Surface].
//
// A [LineLayoutBuffer] caches the layouts of recently used lines, keeps
// them up to date when the [Document] changes and maintains the number of
// visual lines of the document. A [TextRenderer] owns a buffer and the
// document-wide primary font and renders one line at a time.
//
// # Quick Start
//
//	doc := textlayout.NewSimpleDocument("Hello, world\n\tשלום")
//	pres := textlayout.NewSimplePresentation()
//
//	src, _ := text.NewFontSource(goregular.TTF)
//	fonts := text.NewCollection(src)
//
//	r, err := textlayout.NewTextRenderer(doc, pres, text.NewGoTextEngine(), fonts, nil,
//	    textlayout.WithLayoutWidth(400))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	dst := surface.NewImageSurface(400, 200)
//	area := surface.Rect{MaxX: 400, MaxY: 200}
//	for line := range doc.NumberOfLines() {
//	    y := float64(line) * r.LinePitch()
//	    _ = r.RenderLine(dst, line, surface.Pt(0, y), area, area, nil)
//	}
//
// # Offsets
//
// Character offsets are rune indices into the line. Glyph clusters never
// split a rune, and a run is only broken at cluster boundaries.
//
// # Environment
//
// Locale, digit substitution, reading direction, system colors and layout
// defaults come from an [Environment], backed by a settings file (see
// package settings). Environment.Refresh reloads it and notifies the
// renderers, which invalidate their layouts.
//
// # Logging
//
// The package is silent by default. Use [SetLogger] to receive debug
// records about shaping fallbacks and cache maintenance.
//
// # Concurrency
//
// Layouts, buffers and renderers are owned by one goroutine. They are not
// safe for concurrent use.
package textlayout
