package text

import (
	"strings"

	"github.com/go-text/typesetting/language"
	lru "github.com/hashicorp/golang-lru/v2"
)

// FontRequest describes the font a run style asks for.
type FontRequest struct {
	// Family is the family name; empty selects the resolver's default.
	Family string
	// Properties selects weight, style and stretch.
	Properties FontProperties
	// Size is the size in pixels per em.
	Size float64
	// SizeAdjust, when positive, scales Size so that the x-height is
	// SizeAdjust times the requested size.
	SizeAdjust float64
}

// FontResolver selects fonts for runs.
type FontResolver interface {
	// Resolve returns the font matching req.
	Resolve(req FontRequest) (*Font, error)

	// Fallback returns the font for the longest prefix of text a single
	// font can render, and the length of that prefix (at least 1 for
	// non-empty text). primary is returned when it covers the prefix.
	Fallback(primary *Font, script language.Script, text []rune) (*Font, int)
}

// fontKey identifies a memoized Font.
type fontKey struct {
	source *FontSource
	size   float64
}

const fontCacheSize = 64

// fontCache memoizes Fonts per source and size.
type fontCache struct {
	fonts *lru.Cache[fontKey, *Font]
}

func newFontCache() fontCache {
	c, _ := lru.New[fontKey, *Font](fontCacheSize)
	return fontCache{fonts: c}
}

func (c fontCache) font(s *FontSource, size float64) *Font {
	key := fontKey{source: s, size: size}
	if f, ok := c.fonts.Get(key); ok {
		return f
	}
	f := newFont(s, size)
	c.fonts.Add(key, f)
	return f
}

// adjustedSize applies req.SizeAdjust to req.Size for source s.
func adjustedSize(s *FontSource, req FontRequest) float64 {
	if req.SizeAdjust <= 0 {
		return req.Size
	}
	ratio := s.xHeightRatio()
	if ratio <= 0 {
		return req.Size
	}
	return req.Size * req.SizeAdjust / ratio
}

// coveredPrefix returns how many leading runes of text f covers.
func coveredPrefix(f *Font, text []rune) int {
	for i, r := range text {
		if !covers(f, r) {
			return i
		}
	}
	return len(text)
}

// fallbackSpan implements FontResolver.Fallback over a candidate lookup.
// find returns a font able to render r, or nil.
func fallbackSpan(primary *Font, text []rune, find func(r rune) *Font) (*Font, int) {
	if len(text) == 0 {
		return primary, 0
	}
	if n := coveredPrefix(primary, text); n > 0 {
		return primary, n
	}

	alt := find(text[0])
	if alt == nil {
		// Nothing renders text[0]: keep the primary font for the whole
		// uncovered span so the missing glyphs come out as one run.
		n := 1
		for n < len(text) && !covers(primary, text[n]) && find(text[n]) == nil {
			n++
		}
		return primary, n
	}
	n := 1
	for n < len(text) && covers(alt, text[n]) && !(covers(primary, text[n]) && !isIgnorable(text[n])) {
		n++
	}
	return alt, n
}

// Collection is a deterministic FontResolver over registered sources.
// Family lookup is case-insensitive; the first source registered is the
// last resort for Resolve. Fallback tries sources in registration order.
type Collection struct {
	sources []*FontSource
	cache   fontCache
}

// NewCollection creates a Collection of the given sources.
func NewCollection(sources ...*FontSource) *Collection {
	return &Collection{
		sources: append([]*FontSource(nil), sources...),
		cache:   newFontCache(),
	}
}

// Add registers a source.
func (c *Collection) Add(s *FontSource) {
	c.sources = append(c.sources, s)
}

// Sources returns the registered sources in registration order.
func (c *Collection) Sources() []*FontSource {
	return append([]*FontSource(nil), c.sources...)
}

// Resolve implements FontResolver.
func (c *Collection) Resolve(req FontRequest) (*Font, error) {
	if req.Size <= 0 {
		return nil, ErrInvalidSize
	}
	if len(c.sources) == 0 {
		return nil, ErrNoFont
	}

	best := c.sources[0]
	bestScore := -1
	for _, s := range c.sources {
		if req.Family != "" && !strings.EqualFold(s.Name(), req.Family) {
			continue
		}
		if score := aspectScore(s.Properties(), req.Properties); bestScore < 0 || score < bestScore {
			best, bestScore = s, score
		}
	}
	if bestScore < 0 {
		slogger().Debug("font family not found, using default", "family", req.Family, "default", best.Name())
	}
	return c.cache.font(best, adjustedSize(best, req)), nil
}

// Fallback implements FontResolver.
func (c *Collection) Fallback(primary *Font, script language.Script, text []rune) (*Font, int) {
	return fallbackSpan(primary, text, func(r rune) *Font {
		for _, s := range c.sources {
			if s != primary.source && s.HasGlyph(r) {
				return c.cache.font(s, primary.size)
			}
		}
		return nil
	})
}

// aspectScore is the distance between two property sets; lower is closer.
func aspectScore(have, want FontProperties) int {
	score := 0
	if want.Style != 0 && have.Style != want.Style {
		score += 1000
	}
	if want.Weight != 0 {
		d := float64(have.Weight - want.Weight)
		if d < 0 {
			d = -d
		}
		score += int(d)
	}
	if want.Stretch != 0 {
		d := float64(have.Stretch - want.Stretch)
		if d < 0 {
			d = -d
		}
		score += int(d * 100)
	}
	return score
}
