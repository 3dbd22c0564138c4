package text

// GlyphRange converts the character range [first, last) of a shaped run to
// the half-open range of glyph indices that render it. clusters is the
// run's cluster map and numGlyphs its glyph count.
func GlyphRange(clusters []int, numGlyphs int, rtl bool, first, last int) (int, int) {
	if first >= last || first >= len(clusters) {
		return 0, 0
	}
	if !rtl {
		end := numGlyphs
		if last < len(clusters) {
			end = clusters[last]
		}
		return clusters[first], end
	}
	begin := 0
	if last < len(clusters) {
		begin = clusters[last] + 1
	}
	return begin, clusters[first] + 1
}

// logicalWidths spreads the advance of every cluster evenly over its characters.
func logicalWidths(g Glyphs, advances []float64, rtl bool) []float64 {
	n := len(g.Clusters)
	widths := make([]float64, n)
	for i := 0; i < n; {
		j := i + 1
		for j < n && g.Clusters[j] == g.Clusters[i] {
			j++
		}
		b, e := GlyphRange(g.Clusters, len(advances), rtl, i, j)
		var w float64
		for k := b; k < e && k < len(advances); k++ {
			w += advances[k]
		}
		share := w / float64(j-i)
		for k := i; k < j; k++ {
			widths[k] = share
		}
		i = j
	}
	return widths
}

func sum(values []float64) float64 {
	var s float64
	for _, v := range values {
		s += v
	}
	return s
}

// cpToX returns the distance from the left edge of the run to the leading
// (or trailing) edge of character cp. cp may equal the character count.
func cpToX(cp int, trailing bool, g Glyphs, advances []float64, rtl bool) float64 {
	widths := logicalWidths(g, advances, rtl)
	var x float64
	for i := 0; i < cp && i < len(widths); i++ {
		x += widths[i]
	}
	if trailing && cp >= 0 && cp < len(widths) {
		x += widths[cp]
	}
	if rtl {
		return sum(widths) - x
	}
	return x
}

// xToCP returns the character under x and whether x is nearer its trailing
// edge. Positions before the run map to the first character's leading edge,
// positions after it to the last character's trailing edge.
func xToCP(x float64, g Glyphs, advances []float64, rtl bool) (int, bool) {
	widths := logicalWidths(g, advances, rtl)
	if len(widths) == 0 {
		return 0, false
	}
	if rtl {
		x = sum(widths) - x
	}
	if x < 0 {
		return 0, false
	}
	var acc float64
	for i, w := range widths {
		if x < acc+w {
			return i, x >= acc+w/2
		}
		acc += w
	}
	return len(widths) - 1, true
}

// justify distributes targetWidth - sum(advances) over the glyphs.
// Blank glyphs absorb the difference first, then cluster starts except the
// visually last glyph, and finally the last glyph alone.
func justify(attrs []GlyphAttr, advances []float64, targetWidth float64) []float64 {
	out := make([]float64, len(advances))
	copy(out, advances)
	extra := targetWidth - sum(advances)
	if extra == 0 || len(out) == 0 {
		return out
	}

	var slots []int
	for i, a := range attrs {
		if a.Justification == JustifyBlank {
			slots = append(slots, i)
		}
	}
	if len(slots) == 0 {
		for i, a := range attrs {
			if i == len(attrs)-1 {
				break
			}
			if a.ClusterStart && (a.Justification == JustifyCharacter || a.Justification == JustifyKashida) {
				slots = append(slots, i)
			}
		}
	}
	if len(slots) == 0 {
		slots = []int{len(out) - 1}
	}

	per := extra / float64(len(slots))
	for _, i := range slots {
		out[i] += per
		if out[i] < 0 {
			out[i] = 0
		}
	}
	return out
}

// ReorderVisual returns the visual-to-logical permutation of items with the
// given embedding levels: element v is the logical index displayed at
// visual position v.
func ReorderVisual(levels []uint8) []int {
	n := len(levels)
	order := make([]int, n)
	lv := make([]uint8, n)
	copy(lv, levels)
	var highest uint8
	lowestOdd := uint8(255)
	for i, l := range levels {
		order[i] = i
		if l > highest {
			highest = l
		}
		if l&1 == 1 && l < lowestOdd {
			lowestOdd = l
		}
	}
	if lowestOdd == 255 {
		return order
	}

	for level := highest; level >= lowestOdd; level-- {
		for i := 0; i < n; {
			if lv[i] < level {
				i++
				continue
			}
			j := i
			for j < n && lv[j] >= level {
				j++
			}
			reverseInts(order[i:j])
			reverseLevels(lv[i:j])
			i = j
		}
	}
	return order
}

func reverseInts(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func reverseLevels(s []uint8) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
