package theme

type RGB [3]uint8

// Palette is a gradient of colors sampled by normalized position.
type Palette struct {
	Name   string
	Colors []RGB
}

// Default is the built-in dusk gradient: deep purple through magenta
// up to bright yellow.
func Default() *Palette {
	return &Palette{
		Name: "dusk",
		Colors: []RGB{
			{26, 16, 42},
			{54, 28, 77},
			{98, 44, 112},
			{152, 63, 128},
			{204, 90, 126},
			{237, 129, 112},
			{250, 180, 110},
			{252, 229, 136},
		},
	}
}

// Lookup returns the interpolated color for a normalized value 0-1.
func (p *Palette) Lookup(norm float64) RGB {
	if norm <= 0 {
		return p.Colors[0]
	}
	if norm >= 1 {
		return p.Colors[len(p.Colors)-1]
	}

	pos := norm * float64(len(p.Colors)-1)
	i := int(pos)
	frac := pos - float64(i)

	c0 := p.Colors[i]
	c1 := p.Colors[i+1]

	return RGB{
		lerp(c0[0], c1[0], frac),
		lerp(c0[1], c1[1], frac),
		lerp(c0[2], c1[2], frac),
	}
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a)*(1-t) + float64(b)*t)
}
