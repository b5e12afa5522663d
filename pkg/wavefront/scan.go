package wavefront

import "math"

// scanner walks a single line of OBJ/MTL text. Fields are delimited by
// spaces and tabs; a carriage return ends the line. Every extractor has
// an explicit default so a malformed field never aborts the parse.
type scanner struct {
	buf []byte
	pos int
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// eol reports whether the cursor sits at the end of usable line data.
func (s *scanner) eol() bool {
	return s.pos >= len(s.buf) || s.buf[s.pos] == '\r' || s.buf[s.pos] == '\n'
}

func (s *scanner) peek() byte {
	if s.pos >= len(s.buf) {
		return 0
	}
	return s.buf[s.pos]
}

func (s *scanner) skipSpace() {
	for s.pos < len(s.buf) && isSpace(s.buf[s.pos]) {
		s.pos++
	}
}

// tokenEnd returns the offset one past the current field.
func (s *scanner) tokenEnd() int {
	end := s.pos
	for end < len(s.buf) && !isSpace(s.buf[end]) && s.buf[end] != '\r' {
		end++
	}
	return end
}

// word extracts the next space-delimited field and advances past it.
// Returns "" at end of line.
func (s *scanner) word() string {
	s.skipSpace()
	end := s.tokenEnd()
	w := string(s.buf[s.pos:end])
	s.pos = end
	return w
}

// rest returns the remainder of the line verbatim, without the trailing
// carriage return.
func (s *scanner) rest() string {
	end := len(s.buf)
	for end > s.pos && (s.buf[end-1] == '\r' || s.buf[end-1] == '\n') {
		end--
	}
	if s.pos >= end {
		return ""
	}
	return string(s.buf[s.pos:end])
}

// atoiAt reads a base-10 integer at the cursor without advancing it.
// Malformed input yields 0.
func (s *scanner) atoiAt() int {
	i := s.pos
	neg := false
	if i < len(s.buf) && (s.buf[i] == '+' || s.buf[i] == '-') {
		neg = s.buf[i] == '-'
		i++
	}
	n := 0
	for i < len(s.buf) && isDigit(s.buf[i]) {
		n = n*10 + int(s.buf[i]-'0')
		i++
	}
	if neg {
		return -n
	}
	return n
}

// int_ extracts the next field as a base-10 integer, 0 if malformed.
func (s *scanner) int_() int {
	s.skipSpace()
	v := s.atoiAt()
	s.pos = s.tokenEnd()
	return v
}

// skipSlashField advances past the current slash-delimited sub-field.
func (s *scanner) skipSlashField() {
	for s.pos < len(s.buf) {
		c := s.buf[s.pos]
		if c == '/' || isSpace(c) || c == '\r' {
			return
		}
		s.pos++
	}
}

// fracLUT holds reciprocal powers of ten for the first fraction digits.
var fracLUT = [...]float64{1.0, 0.1, 0.01, 0.001, 0.0001, 0.00001, 0.000001, 0.0000001}

// parseFloatBytes converts a decimal token with optional sign, fraction
// and exponent. It reports failure when no mantissa digits were read,
// so callers can substitute a default. Locale independent, never panics.
func parseFloatBytes(b []byte) (float64, bool) {
	if len(b) == 0 {
		return 0, false
	}
	i := 0
	sign := 1.0
	switch b[0] {
	case '+':
		i++
	case '-':
		sign = -1.0
		i++
	default:
		if !isDigit(b[0]) {
			return 0, false
		}
	}

	mantissa := 0.0
	read := 0
	for i < len(b) && isDigit(b[i]) {
		mantissa = mantissa*10 + float64(b[i]-'0')
		i++
		read++
	}
	if read == 0 {
		return 0, false
	}

	if i < len(b) && b[i] == '.' {
		i++
		read = 1
		for i < len(b) && isDigit(b[i]) {
			var scale float64
			if read < len(fracLUT) {
				scale = fracLUT[read]
			} else {
				scale = math.Pow(10.0, -float64(read))
			}
			mantissa += float64(b[i]-'0') * scale
			read++
			i++
		}
	}

	exponent := 0
	if i < len(b) && (b[i] == 'e' || b[i] == 'E') {
		i++
		expSign := 1
		if i < len(b) && (b[i] == '+' || b[i] == '-') {
			if b[i] == '-' {
				expSign = -1
			}
			i++
		} else if i >= len(b) || !isDigit(b[i]) {
			return 0, false
		}
		read = 0
		for i < len(b) && isDigit(b[i]) {
			exponent = exponent*10 + int(b[i]-'0')
			i++
			read++
		}
		if read == 0 {
			return 0, false
		}
		exponent *= expSign
	}

	if exponent != 0 {
		// 10^e == 5^e * 2^e; Ldexp supplies the power of two exactly.
		return sign * math.Ldexp(mantissa*math.Pow(5.0, float64(exponent)), exponent), true
	}
	return sign * mantissa, true
}

// real extracts the next field as a float, falling back to def when the
// field is empty or has no usable digits.
func (s *scanner) real(def float64) float32 {
	s.skipSpace()
	end := s.tokenEnd()
	v := def
	if f, ok := parseFloatBytes(s.buf[s.pos:end]); ok {
		v = f
	}
	s.pos = end
	return float32(v)
}

func (s *scanner) real2(defX, defY float64) (float32, float32) {
	return s.real(defX), s.real(defY)
}

func (s *scanner) real3(defX, defY, defZ float64) (float32, float32, float32) {
	return s.real(defX), s.real(defY), s.real(defZ)
}

// onOff extracts an "on"/"off" field, returning def when neither matches.
func (s *scanner) onOff(def bool) bool {
	s.skipSpace()
	end := s.tokenEnd()
	v := def
	tok := s.buf[s.pos:end]
	if len(tok) >= 2 && string(tok[:2]) == "on" {
		v = true
	} else if len(tok) >= 3 && string(tok[:3]) == "off" {
		v = false
	}
	s.pos = end
	return v
}

// textureType extracts a projection-type field, returning def when the
// token matches no known type.
func (s *scanner) textureType(def TextureType) TextureType {
	s.skipSpace()
	end := s.tokenEnd()
	v := def
	tok := string(s.buf[s.pos:end])
	switch {
	case hasPrefix(tok, "cube_top"):
		v = TextureTypeCubeTop
	case hasPrefix(tok, "cube_bottom"):
		v = TextureTypeCubeBottom
	case hasPrefix(tok, "cube_left"):
		v = TextureTypeCubeLeft
	case hasPrefix(tok, "cube_right"):
		v = TextureTypeCubeRight
	case hasPrefix(tok, "cube_front"):
		v = TextureTypeCubeFront
	case hasPrefix(tok, "cube_back"):
		v = TextureTypeCubeBack
	case hasPrefix(tok, "sphere"):
		v = TextureTypeSphere
	}
	s.pos = end
	return v
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

// fixIndex converts a raw 1-based OBJ index into a 0-based offset.
// Negative values address backwards from the end of the pool and a
// bare 0 degenerates to the first element.
func fixIndex(idx, n int) int {
	if idx > 0 {
		return idx - 1
	}
	if idx == 0 {
		return 0
	}
	return n + idx
}

// indexTriple reads one face corner in any of the four legal shapes
// (v, v/vt, v//vn, v/vt/vn), resolving each index eagerly against the
// pool sizes in effect at this point in the stream. Absent fields stay
// at the -1 sentinel.
func (s *scanner) indexTriple(vsize, vnsize, vtsize int) Index {
	idx := Index{Vertex: -1, Normal: -1, Texcoord: -1}

	idx.Vertex = fixIndex(s.atoiAt(), vsize)
	s.skipSlashField()
	if s.peek() != '/' {
		return idx
	}
	s.pos++

	// v//vn
	if s.peek() == '/' {
		s.pos++
		idx.Normal = fixIndex(s.atoiAt(), vnsize)
		s.skipSlashField()
		return idx
	}

	idx.Texcoord = fixIndex(s.atoiAt(), vtsize)
	s.skipSlashField()
	if s.peek() != '/' {
		return idx
	}
	s.pos++
	idx.Normal = fixIndex(s.atoiAt(), vnsize)
	s.skipSlashField()
	return idx
}

// tagSizes holds the i/f/s count triple of a tag directive.
type tagSizes struct {
	numInts    int
	numFloats  int
	numStrings int
}

// tagTriple reads an int/float/string count triple of the form "i/f/s".
// Missing fields stay zero.
func (s *scanner) tagTriple() tagSizes {
	var ts tagSizes
	ts.numInts = s.atoiAt()
	s.skipSlashField()
	if s.peek() != '/' {
		return ts
	}
	s.pos++
	ts.numFloats = s.atoiAt()
	s.skipSlashField()
	if s.peek() != '/' {
		return ts
	}
	s.pos++
	ts.numStrings = s.atoiAt()
	s.skipSlashField()
	if s.pos < len(s.buf) {
		s.pos++
	}
	return ts
}
