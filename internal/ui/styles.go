package ui

import (
	"fmt"
	"image/color"
)

// Palette holds the colors used to render answers. The defaults are taken
// from the Nord theme.
type Palette struct {
	Bold    color.Color
	Command color.Color
	Text    color.Color
}

var palette = Palette{
	Bold:    color.RGBA{R: 235, G: 203, B: 139, A: 255},
	Command: color.RGBA{R: 163, G: 190, B: 140, A: 255},
	Text:    color.RGBA{R: 129, G: 161, B: 193, A: 255},
}

// GetPalette returns the active palette.
func GetPalette() Palette {
	return palette
}

// SGR sequences written around formatted answer text. They are emitted
// verbatim regardless of the terminal's color profile so the output stays
// byte-for-byte stable when piped.
var (
	ColorBold    = foreground(palette.Bold)
	ColorCommand = foreground(palette.Command)
	ColorText    = foreground(palette.Text)
)

// Reset clears all SGR attributes.
const Reset = "\033[0m"

// ErrorLine is printed in place of an answer when asking or formatting fails.
const ErrorLine = "\033[31;1m🚫 Error: Invalid or too complex response.\033[0m"

// foreground builds a 24-bit foreground color sequence for c.
func foreground(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("\033[38;2;%d;%d;%dm", r>>8, g>>8, b>>8)
}
