package graphic

import "github.com/nsf/termbox-go"

// Styles are the colors the chart is drawn with.
type Styles struct {
	Foreground termbox.Attribute // text and the line
	Background termbox.Attribute
	Marker     termbox.Attribute // current index column
	Grid       termbox.Attribute
	Up         termbox.Attribute // price up since the start
	Down       termbox.Attribute // price down since the start
}

// DefaultStyles returns the default chart colors.
func DefaultStyles() Styles {
	return Styles{
		Foreground: termbox.ColorDefault,
		Background: termbox.ColorDefault,
		Marker:     termbox.ColorYellow | termbox.AttrBold,
		Grid:       termbox.ColorBlack | termbox.AttrBold,
		Up:         termbox.ColorGreen,
		Down:       termbox.ColorRed,
	}
}

// AsUInt16s returns the foreground, background and marker styles as numbers.
func (sts Styles) AsUInt16s() (uint16, uint16, uint16) {
	return uint16(sts.Foreground), uint16(sts.Background), uint16(sts.Marker)
}

// StylesFromUInt16 takes the foreground, background and marker styles as
// numbers, keeping the default grid and trend colors.
func StylesFromUInt16(fg, bg, marker uint16) Styles {
	sts := DefaultStyles()
	sts.Foreground = termbox.Attribute(fg)
	sts.Background = termbox.Attribute(bg)
	sts.Marker = termbox.Attribute(marker)
	return sts
}
