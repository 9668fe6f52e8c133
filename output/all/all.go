// Package all imports all backends implemented by the output package.
package all

import (
	_ "github.com/noriah/pitchline/output/null"
	_ "github.com/noriah/pitchline/output/oto"
	_ "github.com/noriah/pitchline/output/pacat"
)
