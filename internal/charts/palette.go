package charts

import (
	"errors"
	"fmt"
	"strings"
)

// ColorScheme names one of the qualitative palettes.
type ColorScheme int

const (
	SchemePlotly ColorScheme = iota
	SchemeSet1
	SchemeSet2
	SchemeSet3
	SchemeDark2
	SchemePastel
)

// ColorSchemes lists every scheme in selector order.
var ColorSchemes = []ColorScheme{SchemePlotly, SchemeSet1, SchemeSet2, SchemeSet3, SchemeDark2, SchemePastel}

var ErrUnknownScheme = errors.New("unknown color scheme")

var schemeNames = map[ColorScheme]string{
	SchemePlotly: "Plotly",
	SchemeSet1:   "Set1",
	SchemeSet2:   "Set2",
	SchemeSet3:   "Set3",
	SchemeDark2:  "Dark2",
	SchemePastel: "Pastel",
}

var palettes = map[ColorScheme][]string{
	SchemePlotly: {"#636EFA", "#EF553B", "#00CC96", "#AB63FA", "#FFA15A", "#19D3F3", "#FF6692", "#B6E880", "#FF97FF", "#FECB52"},
	SchemeSet1: {
		"rgb(228,26,28)", "rgb(55,126,184)", "rgb(77,175,74)", "rgb(152,78,163)", "rgb(255,127,0)",
		"rgb(255,255,51)", "rgb(166,86,40)", "rgb(247,129,191)", "rgb(153,153,153)",
	},
	SchemeSet2: {
		"rgb(102,194,165)", "rgb(252,141,98)", "rgb(141,160,203)", "rgb(231,138,195)",
		"rgb(166,216,84)", "rgb(255,217,47)", "rgb(229,196,148)", "rgb(179,179,179)",
	},
	SchemeSet3: {
		"rgb(141,211,199)", "rgb(255,255,179)", "rgb(190,186,218)", "rgb(251,128,114)",
		"rgb(128,177,211)", "rgb(253,180,98)", "rgb(179,222,105)", "rgb(252,205,229)",
		"rgb(217,217,217)", "rgb(188,128,189)", "rgb(204,235,197)", "rgb(255,237,111)",
	},
	SchemeDark2: {
		"rgb(27,158,119)", "rgb(217,95,2)", "rgb(117,112,179)", "rgb(231,41,138)",
		"rgb(102,166,30)", "rgb(230,171,2)", "rgb(166,118,29)", "rgb(102,102,102)",
	},
	SchemePastel: {
		"rgb(102, 197, 204)", "rgb(246, 207, 113)", "rgb(248, 156, 116)", "rgb(220, 176, 242)",
		"rgb(135, 197, 95)", "rgb(158, 185, 243)", "rgb(254, 136, 177)", "rgb(201, 219, 116)",
		"rgb(139, 224, 164)", "rgb(180, 151, 231)", "rgb(179, 179, 179)",
	},
}

func (s ColorScheme) String() string {
	if n, ok := schemeNames[s]; ok {
		return n
	}
	return fmt.Sprintf("ColorScheme(%d)", int(s))
}

// ParseColorScheme maps a palette name (any case) to a ColorScheme.
func ParseColorScheme(name string) (ColorScheme, error) {
	for _, s := range ColorSchemes {
		if strings.EqualFold(strings.TrimSpace(name), schemeNames[s]) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownScheme, name)
}

func (s ColorScheme) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *ColorScheme) UnmarshalText(b []byte) error {
	v, err := ParseColorScheme(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Palette returns a copy of the colour sequence for s.
func Palette(s ColorScheme) ([]string, error) {
	p, ok := palettes[s]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnknownScheme, s)
	}
	return append([]string(nil), p...), nil
}
