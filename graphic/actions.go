package graphic

import "github.com/nsf/termbox-go"

// Actions are what the keys do.
type Actions interface {
	TogglePlay()
	Next()
	Prev()
	Home()
	End()
	ToggleSound()
	ToggleMode()
	Volume(delta float64)
	LoadDemo(n int)
}

// dispatch runs the action bound to ev. It returns false for a quit key.
func dispatch(ev termbox.Event, a Actions) bool {
	switch ev.Key {
	case termbox.KeyCtrlC, termbox.KeyEsc:
		return false

	case termbox.KeySpace:
		a.TogglePlay()

	case termbox.KeyArrowRight:
		a.Next()

	case termbox.KeyArrowLeft:
		a.Prev()

	case termbox.KeyHome:
		a.Home()

	case termbox.KeyEnd:
		a.End()

	case 0:
		switch ch := ev.Ch; ch {
		case 'q', 'Q':
			return false

		case ' ':
			a.TogglePlay()

		case 's', 'S':
			a.ToggleSound()

		case 'm', 'M':
			a.ToggleMode()

		case '+', '=':
			a.Volume(VolumeStep)

		case '-', '_':
			a.Volume(-VolumeStep)

		default:
			if ch >= '1' && ch <= '9' {
				a.LoadDemo(int(ch - '1'))
			}
		}

	default:
	}

	return true
}
