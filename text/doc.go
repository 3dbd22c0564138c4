// Package text provides the shaping layer of textlayout: script
// itemization, glyph shaping and placement, caret geometry and font
// resolution.
//
// The package separates three concerns:
//
//   - Engine: itemizes text and shapes runs into glyphs. Two engines are
//     provided: GoTextEngine (HarfBuzz via go-text/typesetting) and
//     BuiltinEngine (one glyph per character, golang.org/x/image).
//   - FontSource / Font: a parsed font file and that file at a pixel size.
//   - FontResolver: maps run styles to fonts and picks fallback fonts for
//     characters the primary font cannot render. Collection is a
//     deterministic in-memory resolver, FontMapResolver searches the
//     system fonts.
//
// # Example usage
//
//	source, err := text.NewFontSource(goregular.TTF)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fonts := text.NewCollection(source)
//	font, _ := fonts.Resolve(text.FontRequest{Size: 16})
//
//	engine := text.NewGoTextEngine()
//	runes := []rune("Hello, world")
//	items, _ := engine.Itemize(runes, text.ItemizeControl{}, text.ItemizeState{}, 16)
//	glyphs, _ := engine.Shape(runes, items[0].Analysis, font, 64, &text.ScriptCache{})
//
// # Cluster maps
//
// Glyphs are stored in visual order. A cluster map has one entry per
// character holding the index of the logically first glyph of the
// character's cluster: the lowest glyph index in left-to-right runs and
// the highest in right-to-left runs. GlyphRange converts character ranges
// to glyph ranges under this convention.
package text
