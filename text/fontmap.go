package text

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/fontscan"
	"github.com/go-text/typesetting/language"
)

// FontMapResolver resolves fonts through a go-text fontscan.FontMap: the
// system font index (after UseSystemFonts) plus sources added with AddSource.
//
// FontMapResolver is not safe for concurrent use.
type FontMapResolver struct {
	fm      *fontscan.FontMap
	sources map[string]*FontSource
	cache   fontCache
	nextID  int
}

// fontscanLogger forwards fontscan diagnostics to the package logger.
type fontscanLogger struct{}

func (fontscanLogger) Printf(format string, args ...interface{}) {
	slogger().Debug(fmt.Sprintf(format, args...), "component", "fontscan")
}

// NewFontMapResolver creates a resolver with an empty font map.
func NewFontMapResolver() *FontMapResolver {
	return &FontMapResolver{
		fm:      fontscan.NewFontMap(fontscanLogger{}),
		sources: make(map[string]*FontSource),
		cache:   newFontCache(),
	}
}

// UseSystemFonts indexes the fonts installed on the system. The index is
// cached in cacheDir (empty selects the user cache directory).
func (r *FontMapResolver) UseSystemFonts(cacheDir string) error {
	if err := r.fm.UseSystemFonts(cacheDir); err != nil {
		return fmt.Errorf("text: indexing system fonts: %w", err)
	}
	return nil
}

// AddSource registers an in-memory source. Added sources take priority
// over system fonts of the same family.
func (r *FontMapResolver) AddSource(s *FontSource) error {
	id := s.location
	if id == "" {
		id = "memory:" + strconv.Itoa(r.nextID)
		r.nextID++
	}
	if err := r.fm.AddFont(bytes.NewReader(s.data), id, ""); err != nil {
		return fmt.Errorf("text: adding font %q: %w", s.Name(), err)
	}
	r.sources[id] = s
	return nil
}

// Resolve implements FontResolver.
func (r *FontMapResolver) Resolve(req FontRequest) (*Font, error) {
	if req.Size <= 0 {
		return nil, ErrInvalidSize
	}
	families := []string{fontscan.SansSerif}
	if req.Family != "" {
		families = []string{req.Family, fontscan.SansSerif}
	}
	r.fm.SetQuery(fontscan.Query{Families: families, Aspect: req.Properties.aspect()})
	face := r.fm.ResolveFace('a')
	if face == nil {
		return nil, ErrNoFont
	}
	s, err := r.sourceOf(face.Font)
	if err != nil {
		return nil, err
	}
	return r.cache.font(s, adjustedSize(s, req)), nil
}

// Fallback implements FontResolver.
func (r *FontMapResolver) Fallback(primary *Font, script language.Script, text []rune) (*Font, int) {
	r.fm.SetScript(script)
	return fallbackSpan(primary, text, func(ch rune) *Font {
		face := r.fm.ResolveFace(ch)
		if face == nil {
			return nil
		}
		if gid, ok := face.NominalGlyph(ch); !ok || gid == 0 {
			return nil
		}
		s, err := r.sourceOf(face.Font)
		if err != nil {
			slogger().Debug("fallback font unusable", "rune", ch, "err", err)
			return nil
		}
		if s == primary.source {
			return nil
		}
		return r.cache.font(s, primary.size)
	})
}

// sourceOf returns the FontSource for a font of the map, loading system
// font files on first use.
func (r *FontMapResolver) sourceOf(f *font.Font) (*FontSource, error) {
	loc := r.fm.FontLocation(f)
	key := loc.File + "#" + strconv.Itoa(int(loc.Index))
	if s, ok := r.sources[key]; ok {
		return s, nil
	}
	if s, ok := r.sources[loc.File]; ok {
		return s, nil
	}
	s, err := NewFontSourceFromFile(loc.File, WithCollectionIndex(int(loc.Index)))
	if err != nil {
		return nil, err
	}
	r.sources[key] = s
	return s, nil
}
