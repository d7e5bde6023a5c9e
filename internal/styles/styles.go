// Package styles holds the fixed set of artistic styles a user can pick and the
// provider prompt each one maps to.
package styles

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownStyle = errors.New("unknown style")

type Style int

const (
	Anime Style = iota + 1
	Picasso
	OilPainting
	Frida
	Miniature
)

// used when the client sends no style at all
const Default = Anime

type definition struct {
	name   string
	prompt string
}

var definitions = map[Style]definition{
	Anime: {
		name:   "Anime Style",
		prompt: "Using the provided image of this person, transform this portrait into pretty, anime style.",
	},
	Picasso: {
		name:   "Picasso Style",
		prompt: "Using the provided image of this person, transform this portrait into Picasso painting style.",
	},
	OilPainting: {
		name:   "Oil Painting Style",
		prompt: "Using the provided image of this person, transform this portrait into the style of a Degas oil painting.",
	},
	Frida: {
		name:   "Frida Style",
		prompt: "Using the provided image of this person, transform this portrait into Frida Kahlo painting style.",
	},
	Miniature: {
		name: "Miniature Effect",
		prompt: "Create a 1/7 scale commercialized figure of the character in the illustration, in a realistic style and environment. " +
			"Place the figure on a computer desk, using a circular transparent acrylic base without any text. " +
			"On the computer screen, display the ZBrush modeling process of the figure. " +
			"Next to the computer screen, place a BANDAI-style toy packaging box printed with the original artwork.",
	},
}

// all styles in display order
func All() []Style {
	return []Style{Anime, Picasso, OilPainting, Frida, Miniature}
}

// maps a display name to a Style. Blank input yields Default; anything else
// must match a name exactly.
func Parse(name string) (Style, error) {
	if strings.TrimSpace(name) == "" {
		return Default, nil
	}

	for style, def := range definitions {
		if def.name == name {
			return style, nil
		}
	}

	return 0, fmt.Errorf("%w: %s", ErrUnknownStyle, name)
}

func (s Style) Valid() bool {
	_, ok := definitions[s]
	return ok
}

func (s Style) String() string {
	if def, ok := definitions[s]; ok {
		return def.name
	}

	return fmt.Sprintf("Style(%d)", int(s))
}

// instruction passed verbatim to the image provider
func (s Style) Prompt() string {
	return definitions[s].prompt
}

func (s Style) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStyle, int(s))
	}

	return []byte(s.String()), nil
}

func (s *Style) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}

	*s = parsed
	return nil
}
