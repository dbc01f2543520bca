package dragbind

import "strconv"

// StylePosition parses the pixel value of a positional style property such
// as "left" or "top". Values that do not start with a number ("auto", "")
// read as 0.
func StylePosition(el Element, prop string) float64 {
	return parseLeadingFloat(el.ComputedStyle(prop))
}

// parseLeadingFloat returns the longest numeric prefix of s, ignoring
// leading spaces, or 0 if there is none. "12.5px" yields 12.5.
func parseLeadingFloat(s string) float64 {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n') {
		i++
	}
	s = s[i:]
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
		digits++
	}
	if end < len(s) && s[end] == '.' {
		end++
		for end < len(s) && s[end] >= '0' && s[end] <= '9' {
			end++
			digits++
		}
	}
	if digits == 0 {
		return 0
	}
	// Optional exponent, only consumed when well formed.
	if end < len(s) && (s[end] == 'e' || s[end] == 'E') {
		exp := end + 1
		if exp < len(s) && (s[exp] == '+' || s[exp] == '-') {
			exp++
		}
		start := exp
		for exp < len(s) && s[exp] >= '0' && s[exp] <= '9' {
			exp++
		}
		if exp > start {
			end = exp
		}
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return v
}

// CumulativeOffset sums offsetLeft/offsetTop along the chain of offset
// parents, giving the element's position relative to the document.
func CumulativeOffset(el Element) Vec2 {
	var off Vec2
	for e := el; e != nil; e = e.OffsetParent() {
		off.X += e.OffsetLeft()
		off.Y += e.OffsetTop()
	}
	return off
}

// ViewportSize returns the first size reported by the document's viewport
// sources, falling back to the root element's client box.
func ViewportSize(doc Document) Vec2 {
	for _, src := range doc.ViewportSources() {
		if src == nil {
			continue
		}
		if w, h, ok := src(); ok {
			return Vec2{w, h}
		}
	}
	if root := doc.Root(); root != nil {
		return Vec2{root.ClientWidth(), root.ClientHeight()}
	}
	return Vec2{}
}

// PointerPosition extracts the document-relative pointer coordinate of an
// event: the first touch point if any, else page coordinates, else client
// coordinates shifted by the document scroll offset. Events reporting none
// of these yield the origin.
func PointerPosition(e *InputEvent, doc Document) Vec2 {
	if e == nil {
		return Vec2{}
	}
	switch {
	case len(e.Touches) > 0:
		return Vec2{e.Touches[0].PageX, e.Touches[0].PageY}
	case e.Page != nil:
		return *e.Page
	case e.Client != nil:
		p := *e.Client
		if doc != nil {
			p = p.Add(doc.Scroll())
		}
		return p
	}
	return Vec2{}
}
