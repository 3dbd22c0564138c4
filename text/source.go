package text

import (
	"bytes"
	"fmt"
	"os"

	"github.com/go-text/typesetting/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// FontSource represents a loaded font file.
// One FontSource creates Font instances at different pixel sizes and is
// shared by every Font it creates.
//
// The font is parsed twice: golang.org/x/image/font/sfnt serves metrics and
// the builtin engine, go-text/typesetting serves HarfBuzz shaping and glyph
// outlines.
type FontSource struct {
	data     []byte
	sfnt     *sfnt.Font
	gotext   *font.Font
	name     string
	desc     font.Description
	location string
}

// SourceOption configures FontSource creation.
type SourceOption func(*sourceConfig)

type sourceConfig struct {
	index    int
	location string
}

// WithCollectionIndex selects a face of a font collection (TTC/OTC).
func WithCollectionIndex(index int) SourceOption {
	return func(c *sourceConfig) {
		c.index = index
	}
}

// WithLocation records where the font data came from. Resolvers use it
// to identify sources.
func WithLocation(location string) SourceOption {
	return func(c *sourceConfig) {
		c.location = location
	}
}

// NewFontSource creates a FontSource from font data (TTF, OTF or a
// collection with WithCollectionIndex). The data slice is copied.
func NewFontSource(data []byte, opts ...SourceOption) (*FontSource, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	var cfg sourceConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)

	sf, err := parseSfnt(dataCopy, cfg.index)
	if err != nil {
		return nil, fmt.Errorf("text: failed to parse font: %w", err)
	}
	gt, err := parseGoText(dataCopy, cfg.index)
	if err != nil {
		return nil, fmt.Errorf("text: failed to load font for shaping: %w", err)
	}

	s := &FontSource{
		data:     dataCopy,
		sfnt:     sf,
		gotext:   gt,
		desc:     gt.Describe(),
		location: cfg.location,
	}
	if name, err := sf.Name(nil, sfnt.NameIDFamily); err == nil && name != "" {
		s.name = name
	} else {
		s.name = s.desc.Family
	}
	return s, nil
}

// NewFontSourceFromFile loads a FontSource from a font file path.
func NewFontSourceFromFile(path string, opts ...SourceOption) (*FontSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("text: failed to read font file: %w", err)
	}
	opts = append([]SourceOption{WithLocation(path)}, opts...)
	return NewFontSource(data, opts...)
}

func parseSfnt(data []byte, index int) (*sfnt.Font, error) {
	if index == 0 {
		if f, err := opentype.Parse(data); err == nil {
			return f, nil
		}
	}
	c, err := opentype.ParseCollection(data)
	if err != nil {
		return nil, err
	}
	return c.Font(index)
}

func parseGoText(data []byte, index int) (*font.Font, error) {
	faces, err := font.ParseTTC(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(faces) {
		return nil, fmt.Errorf("collection index %d out of range [0,%d)", index, len(faces))
	}
	return faces[index].Font, nil
}

// Name returns the font family name.
func (s *FontSource) Name() string { return s.name }

// Location returns the location recorded with WithLocation.
func (s *FontSource) Location() string { return s.location }

// Properties returns the weight, style and stretch declared by the font.
func (s *FontSource) Properties() FontProperties {
	return FontProperties{
		Weight:  s.desc.Aspect.Weight,
		Style:   s.desc.Aspect.Style,
		Stretch: s.desc.Aspect.Stretch,
	}
}

// UnitsPerEm returns the design units per em.
func (s *FontSource) UnitsPerEm() int { return int(s.gotext.Upem()) }

// HasGlyph reports whether the font maps r to a glyph other than
// .notdef. Some cmaps map noncharacters such as U+FFFF to glyph 0.
func (s *FontSource) HasGlyph(r rune) bool {
	gid, ok := s.gotext.NominalGlyph(r)
	return ok && gid != 0
}

// Font returns the source at the given pixel size.
func (s *FontSource) Font(size float64) (*Font, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	return newFont(s, size), nil
}

// xHeightRatio returns x-height / em, or 0 when the font does not declare it.
func (s *FontSource) xHeightRatio() float64 {
	m := s.metrics(1000)
	if m.XHeight <= 0 {
		return 0
	}
	return m.XHeight / 1000
}
