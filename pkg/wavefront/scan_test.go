package wavefront

import (
	"math"
	"testing"
)

func TestFixIndex(t *testing.T) {
	tests := []struct {
		name string
		idx  int
		n    int
		want int
	}{
		{"first element", 1, 5, 0},
		{"last element", 5, 5, 4},
		{"zero degenerates to first", 0, 5, 0},
		{"relative last", -1, 5, 4},
		{"relative first", -5, 5, 0},
		{"beyond end stays 1-based rule", 7, 5, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fixIndex(tt.idx, tt.n); got != tt.want {
				t.Errorf("fixIndex(%d, %d) = %d, want %d", tt.idx, tt.n, got, tt.want)
			}
		})
	}
}

func TestParseFloatBytes(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"0", 0, true},
		{"3", 3, true},
		{"3.14", 3.14, true},
		{"-2.5", -2.5, true},
		{"+4", 4, true},
		{"1e2", 100, true},
		{"1e-2", 0.01, true},
		{"-2.5e3", -2500, true},
		{"6.02E23", 6.02e23, true},
		{"5.", 5, true},
		{"12abc", 12, true},
		{"", 0, false},
		{"abc", 0, false},
		{".", 0, false},
		{".5", 0, false},
		{"-", 0, false},
		{"--5", 0, false},
		{"2e", 0, false},
		{"2e+", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseFloatBytes([]byte(tt.in))
			if ok != tt.wantOK {
				t.Fatalf("parseFloatBytes(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if ok && math.Abs(got-tt.want) > math.Abs(tt.want)*1e-12+1e-12 {
				t.Errorf("parseFloatBytes(%q) = %g, want %g", tt.in, got, tt.want)
			}
		})
	}
}

// Fraction digits beyond the lookup table fall back to a computed
// power; both paths must agree.
func TestParseFloatBytes_LongFraction(t *testing.T) {
	got, ok := parseFloatBytes([]byte("0.123456789012"))
	if !ok {
		t.Fatal("parseFloatBytes failed")
	}
	if math.Abs(got-0.123456789012) > 1e-12 {
		t.Errorf("got %.15f, want 0.123456789012", got)
	}
}

func TestScannerReal_Defaults(t *testing.T) {
	tests := []struct {
		name string
		line string
		def  float64
		want float32
	}{
		{"valid field", "2.5", 0, 2.5},
		{"empty line", "", 7, 7},
		{"garbage field", "xyz", 7, 7},
		{"leading whitespace", "   \t 1.5", 0, 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &scanner{buf: []byte(tt.line)}
			if got := s.real(tt.def); got != tt.want {
				t.Errorf("real(%v) on %q = %v, want %v", tt.def, tt.line, got, tt.want)
			}
		})
	}
}

func TestScannerWord(t *testing.T) {
	s := &scanner{buf: []byte("  hello world\r")}
	if got := s.word(); got != "hello" {
		t.Errorf("first word = %q, want %q", got, "hello")
	}
	if got := s.word(); got != "world" {
		t.Errorf("second word = %q, want %q", got, "world")
	}
	if got := s.word(); got != "" {
		t.Errorf("word at end of line = %q, want empty", got)
	}
}

func TestScannerInt(t *testing.T) {
	tests := []struct {
		line string
		want int
	}{
		{"42", 42},
		{"-7", -7},
		{"  3", 3},
		{"nope", 0},
		{"", 0},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			s := &scanner{buf: []byte(tt.line)}
			if got := s.int_(); got != tt.want {
				t.Errorf("int_() on %q = %d, want %d", tt.line, got, tt.want)
			}
		})
	}
}

func TestScannerOnOff(t *testing.T) {
	tests := []struct {
		line string
		def  bool
		want bool
	}{
		{"on", false, true},
		{"off", true, false},
		{"bogus", true, true},
		{"bogus", false, false},
		{"", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			s := &scanner{buf: []byte(tt.line)}
			if got := s.onOff(tt.def); got != tt.want {
				t.Errorf("onOff(%v) on %q = %v, want %v", tt.def, tt.line, got, tt.want)
			}
		})
	}
}

func TestScannerTextureType(t *testing.T) {
	tests := []struct {
		line string
		want TextureType
	}{
		{"sphere", TextureTypeSphere},
		{"cube_top", TextureTypeCubeTop},
		{"cube_bottom", TextureTypeCubeBottom},
		{"cube_front", TextureTypeCubeFront},
		{"cube_back", TextureTypeCubeBack},
		{"cube_left", TextureTypeCubeLeft},
		{"cube_right", TextureTypeCubeRight},
		{"weird", TextureTypeNone},
		{"", TextureTypeNone},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			s := &scanner{buf: []byte(tt.line)}
			if got := s.textureType(TextureTypeNone); got != tt.want {
				t.Errorf("textureType on %q = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestScannerIndexTriple(t *testing.T) {
	// Pools of 10 vertices, 8 normals, 6 texcoords.
	tests := []struct {
		name string
		in   string
		want Index
	}{
		{"vertex only", "3", Index{Vertex: 2, Normal: -1, Texcoord: -1}},
		{"vertex and texcoord", "3/2", Index{Vertex: 2, Normal: -1, Texcoord: 1}},
		{"vertex and normal", "3//4", Index{Vertex: 2, Normal: 3, Texcoord: -1}},
		{"full triple", "3/2/4", Index{Vertex: 2, Normal: 3, Texcoord: 1}},
		{"negative indices", "-1/-2/-3", Index{Vertex: 9, Normal: 5, Texcoord: 4}},
		{"zero degenerates", "0/0/0", Index{Vertex: 0, Normal: 0, Texcoord: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &scanner{buf: []byte(tt.in)}
			got := s.indexTriple(10, 8, 6)
			if got != tt.want {
				t.Errorf("indexTriple(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestScannerTagTriple(t *testing.T) {
	tests := []struct {
		in   string
		want tagSizes
	}{
		{"2/1/3", tagSizes{numInts: 2, numFloats: 1, numStrings: 3}},
		{"2/1", tagSizes{numInts: 2, numFloats: 1}},
		{"2", tagSizes{numInts: 2}},
		{"", tagSizes{}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			s := &scanner{buf: []byte(tt.in)}
			if got := s.tagTriple(); got != tt.want {
				t.Errorf("tagTriple(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}
