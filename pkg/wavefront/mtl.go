package wavefront

import (
	"bufio"
	"fmt"
	"io"
)

// TextureType identifies the projection used by a texture map.
type TextureType int

const (
	TextureTypeNone TextureType = iota
	TextureTypeSphere
	TextureTypeCubeTop
	TextureTypeCubeBottom
	TextureTypeCubeFront
	TextureTypeCubeBack
	TextureTypeCubeLeft
	TextureTypeCubeRight
)

// String returns the MTL spelling of the texture type.
func (t TextureType) String() string {
	switch t {
	case TextureTypeNone:
		return "none"
	case TextureTypeSphere:
		return "sphere"
	case TextureTypeCubeTop:
		return "cube_top"
	case TextureTypeCubeBottom:
		return "cube_bottom"
	case TextureTypeCubeFront:
		return "cube_front"
	case TextureTypeCubeBack:
		return "cube_back"
	case TextureTypeCubeLeft:
		return "cube_left"
	case TextureTypeCubeRight:
		return "cube_right"
	default:
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
}

// TextureOption holds the per-map modifiers of a texture directive.
type TextureOption struct {
	Type           TextureType
	Sharpness      float32    // -boost
	Brightness     float32    // -mm base
	Contrast       float32    // -mm gain
	OriginOffset   [3]float32 // -o
	Scale          [3]float32 // -s
	Turbulence     [3]float32 // -t
	Clamp          bool       // -clamp
	BlendU         bool       // -blendu
	BlendV         bool       // -blendv
	BumpMultiplier float32    // -bm
	Channel        byte       // -imfchan
}

// TextureMap is a texture filename plus its parsed options.
type TextureMap struct {
	Name   string
	Option TextureOption
}

// Material is one newmtl block of a material library.
type Material struct {
	Name string

	Ambient       [3]float32 // Ka
	Diffuse       [3]float32 // Kd
	Specular      [3]float32 // Ks
	Transmittance [3]float32 // Tf / Kt
	Emission      [3]float32 // Ke
	Shininess     float32    // Ns
	IOR           float32    // Ni
	Dissolve      float32    // d (or 1 - Tr)
	Illum         int        // illum

	// PBR extension scalars.
	Roughness          float32 // Pr
	Metallic           float32 // Pm
	Sheen              float32 // Ps
	ClearcoatThickness float32 // Pc
	ClearcoatRoughness float32 // Pcr
	Anisotropy         float32 // aniso
	AnisotropyRotation float32 // anisor

	AmbientMap           TextureMap // map_Ka
	DiffuseMap           TextureMap // map_Kd
	SpecularMap          TextureMap // map_Ks
	SpecularHighlightMap TextureMap // map_Ns
	BumpMap              TextureMap // map_bump / bump
	DisplacementMap      TextureMap // disp
	AlphaMap             TextureMap // map_d
	ReflectionMap        TextureMap // refl
	RoughnessMap         TextureMap // map_Pr
	MetallicMap          TextureMap // map_Pm
	SheenMap             TextureMap // map_Ps
	EmissiveMap          TextureMap // map_Ke
	NormalMap            TextureMap // norm

	// Unknown keeps unrecognized keywords verbatim for forward
	// compatibility: key -> rest of line.
	Unknown map[string]string
}

// newMaterial returns a material with the documented MTL defaults.
func newMaterial() Material {
	return Material{
		Shininess: 1,
		IOR:       1,
		Dissolve:  1,
	}
}

// MaterialTable is the ordered material list with a name lookup.
type MaterialTable struct {
	Materials []Material
	Index     map[string]int
}

// Add appends m and points the name lookup at it. A repeated name
// re-points the lookup at the newer material.
func (t *MaterialTable) Add(m Material) int {
	if t.Index == nil {
		t.Index = make(map[string]int)
	}
	pos := len(t.Materials)
	t.Materials = append(t.Materials, m)
	t.Index[m.Name] = pos
	return pos
}

// MTLResult holds the outcome of a standalone material-library parse.
type MTLResult struct {
	Table       MaterialTable
	Diagnostics Diagnostics
}

// ParseMTL parses a material library stream on its own, without the
// geometry parser. Malformed directives degrade to defaults or
// diagnostics; only a stream read failure is returned as an error.
func ParseMTL(r io.Reader) (*MTLResult, error) {
	res := &MTLResult{}
	diags, err := parseMTL(r, &res.Table)
	res.Diagnostics = diags
	if err != nil {
		return nil, err
	}
	return res, nil
}

// keyword reports whether b starts with kw followed by a space or tab.
func keyword(b []byte, kw string) bool {
	return len(b) > len(kw) && string(b[:len(kw)]) == kw && isSpace(b[len(kw)])
}

// after positions a scanner one byte past "kw " within b.
func after(b []byte, kw string) *scanner {
	return &scanner{buf: b, pos: len(kw) + 1}
}

func parseMTL(r io.Reader, table *MaterialTable) (Diagnostics, error) {
	var diags Diagnostics

	material := newMaterial()
	hasD := false
	hasTr := false

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNum := 0
	for sc.Scan() {
		lineNum++

		line := trimRight(sc.Bytes())
		line = skipLeft(line)
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		switch {
		case keyword(line, "newmtl"):
			if material.Name != "" {
				table.Add(material)
			}
			material = newMaterial()
			hasD = false
			hasTr = false
			material.Name = after(line, "newmtl").rest()

		case keyword(line, "Ka"):
			s := after(line, "Ka")
			material.Ambient[0], material.Ambient[1], material.Ambient[2] = s.real3(0, 0, 0)
		case keyword(line, "Kd"):
			s := after(line, "Kd")
			material.Diffuse[0], material.Diffuse[1], material.Diffuse[2] = s.real3(0, 0, 0)
		case keyword(line, "Ks"):
			s := after(line, "Ks")
			material.Specular[0], material.Specular[1], material.Specular[2] = s.real3(0, 0, 0)
		case keyword(line, "Kt"):
			s := after(line, "Kt")
			material.Transmittance[0], material.Transmittance[1], material.Transmittance[2] = s.real3(0, 0, 0)
		case keyword(line, "Tf"):
			s := after(line, "Tf")
			material.Transmittance[0], material.Transmittance[1], material.Transmittance[2] = s.real3(0, 0, 0)
		case keyword(line, "Ke"):
			s := after(line, "Ke")
			material.Emission[0], material.Emission[1], material.Emission[2] = s.real3(0, 0, 0)
		case keyword(line, "Ni"):
			material.IOR = after(line, "Ni").real(0)
		case keyword(line, "Ns"):
			material.Shininess = after(line, "Ns").real(0)
		case keyword(line, "illum"):
			material.Illum = after(line, "illum").int_()

		case keyword(line, "d"):
			material.Dissolve = after(line, "d").real(0)
			if hasTr {
				diags.warnf(lineNum, "both 'd' and 'Tr' defined for material %q; using the value of 'd' for dissolve", material.Name)
			}
			hasD = true
		case keyword(line, "Tr"):
			if hasD {
				diags.warnf(lineNum, "both 'd' and 'Tr' defined for material %q; using the value of 'd' for dissolve", material.Name)
			} else {
				material.Dissolve = 1.0 - after(line, "Tr").real(0)
			}
			hasTr = true

		case keyword(line, "Pr"):
			material.Roughness = after(line, "Pr").real(0)
		case keyword(line, "Pm"):
			material.Metallic = after(line, "Pm").real(0)
		case keyword(line, "Ps"):
			material.Sheen = after(line, "Ps").real(0)
		case keyword(line, "Pc"):
			material.ClearcoatThickness = after(line, "Pc").real(0)
		case keyword(line, "Pcr"):
			material.ClearcoatRoughness = after(line, "Pcr").real(0)
		case keyword(line, "aniso"):
			material.Anisotropy = after(line, "aniso").real(0)
		case keyword(line, "anisor"):
			material.AnisotropyRotation = after(line, "anisor").real(0)

		case keyword(line, "map_Ka"):
			parseTextureMap(&material.AmbientMap, line[7:], false)
		case keyword(line, "map_Kd"):
			parseTextureMap(&material.DiffuseMap, line[7:], false)
		case keyword(line, "map_Ks"):
			parseTextureMap(&material.SpecularMap, line[7:], false)
		case keyword(line, "map_Ns"):
			parseTextureMap(&material.SpecularHighlightMap, line[7:], false)
		case keyword(line, "map_bump"):
			parseTextureMap(&material.BumpMap, line[9:], true)
		case keyword(line, "bump"):
			parseTextureMap(&material.BumpMap, line[5:], true)
		case keyword(line, "map_d"):
			parseTextureMap(&material.AlphaMap, line[6:], false)
		case keyword(line, "disp"):
			parseTextureMap(&material.DisplacementMap, line[5:], false)
		case keyword(line, "refl"):
			parseTextureMap(&material.ReflectionMap, line[5:], false)
		case keyword(line, "map_Pr"):
			parseTextureMap(&material.RoughnessMap, line[7:], false)
		case keyword(line, "map_Pm"):
			parseTextureMap(&material.MetallicMap, line[7:], false)
		case keyword(line, "map_Ps"):
			parseTextureMap(&material.SheenMap, line[7:], false)
		case keyword(line, "map_Ke"):
			parseTextureMap(&material.EmissiveMap, line[7:], false)
		case keyword(line, "norm"):
			parseTextureMap(&material.NormalMap, line[5:], false)

		default:
			key, value, ok := splitKeyValue(line)
			if ok {
				if material.Unknown == nil {
					material.Unknown = make(map[string]string)
				}
				material.Unknown[key] = value
			}
		}
	}
	if err := sc.Err(); err != nil {
		return diags, fmt.Errorf("reading material stream: %w", err)
	}

	// The last block has no closing newmtl; flush it unconditionally.
	table.Add(material)

	return diags, nil
}

// parseTextureMap scans option flags interleaved with the filename.
// Whatever token does not look like a known flag becomes the filename;
// the last such token wins. isBump selects the default channel.
func parseTextureMap(tm *TextureMap, b []byte, isBump bool) bool {
	opt := TextureOption{
		Sharpness:      1,
		Contrast:       1,
		Scale:          [3]float32{1, 1, 1},
		BlendU:         true,
		BlendV:         true,
		BumpMultiplier: 1,
		Channel:        'm',
	}
	if isBump {
		opt.Channel = 'l'
	}

	s := &scanner{buf: b}
	found := false
	var name string
	for {
		s.skipSpace()
		if s.eol() {
			break
		}
		rem := s.buf[s.pos:]
		switch {
		case keyword(rem, "-blendu"):
			s.pos += len("-blendu") + 1
			opt.BlendU = s.onOff(true)
		case keyword(rem, "-blendv"):
			s.pos += len("-blendv") + 1
			opt.BlendV = s.onOff(true)
		case keyword(rem, "-clamp"):
			s.pos += len("-clamp") + 1
			opt.Clamp = s.onOff(true)
		case keyword(rem, "-boost"):
			s.pos += len("-boost") + 1
			opt.Sharpness = s.real(1)
		case keyword(rem, "-bm"):
			s.pos += len("-bm") + 1
			opt.BumpMultiplier = s.real(1)
		case keyword(rem, "-o"):
			s.pos += len("-o") + 1
			opt.OriginOffset[0], opt.OriginOffset[1], opt.OriginOffset[2] = s.real3(0, 0, 0)
		case keyword(rem, "-s"):
			s.pos += len("-s") + 1
			opt.Scale[0], opt.Scale[1], opt.Scale[2] = s.real3(1, 1, 1)
		case keyword(rem, "-t"):
			s.pos += len("-t") + 1
			opt.Turbulence[0], opt.Turbulence[1], opt.Turbulence[2] = s.real3(0, 0, 0)
		case keyword(rem, "-type"):
			s.pos += len("-type")
			opt.Type = s.textureType(TextureTypeNone)
		case keyword(rem, "-imfchan"):
			s.pos += len("-imfchan") + 1
			ch := s.word()
			if len(ch) == 1 {
				opt.Channel = ch[0]
			}
		case keyword(rem, "-mm"):
			s.pos += len("-mm") + 1
			opt.Brightness, opt.Contrast = s.real2(0, 1)
		default:
			name = s.word()
			found = true
		}
	}

	tm.Option = opt
	if found {
		tm.Name = name
	}
	return found
}

// splitKeyValue splits "key rest of line" at the first space or tab.
// Lines without a separator are dropped.
func splitKeyValue(line []byte) (string, string, bool) {
	for i, c := range line {
		if isSpace(c) {
			return string(line[:i]), string(line[i+1:]), true
		}
	}
	return "", "", false
}

// trimRight drops trailing spaces, tabs and line terminators.
func trimRight(b []byte) []byte {
	end := len(b)
	for end > 0 {
		c := b[end-1]
		if isSpace(c) || c == '\r' || c == '\n' {
			end--
			continue
		}
		break
	}
	return b[:end]
}

// skipLeft drops leading spaces and tabs.
func skipLeft(b []byte) []byte {
	i := 0
	for i < len(b) && isSpace(b[i]) {
		i++
	}
	return b[i:]
}
