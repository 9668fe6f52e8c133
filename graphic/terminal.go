package graphic

import (
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/nsf/termbox-go"
)

// normalizeTerminal works around TERMINFO values termbox cannot handle under
// tmux. The returned func puts the environment back.
func normalizeTerminal() (func(), error) {
	prevTERMINFO, hadTERMINFO := os.LookupEnv("TERMINFO")

	if strings.HasPrefix(os.Getenv("TERM"), "tmux") {
		if err := os.Unsetenv("TERMINFO"); err != nil {
			return nil, err
		}
	}

	restore := func() {
		if hadTERMINFO {
			os.Setenv("TERMINFO", prevTERMINFO)
		}
	}

	return restore, nil
}

// printAt writes s from column x on row y, clipped at maxX. It returns the
// column after the last cell written.
func printAt(x, y, maxX int, s string, fg, bg termbox.Attribute) int {
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}

		if x+w > maxX {
			break
		}

		termbox.SetCell(x, y, r, fg, bg)
		x += w
	}

	return x
}
