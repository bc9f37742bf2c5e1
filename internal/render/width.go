package render

import (
	"os"

	"golang.org/x/term"
)

const (
	terminalWidthBackup = 80
	separatorWidthMin   = 40
	separatorWidthMax   = 70
)

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func separatorWidth() int {
	width := terminalWidth()
	if width < separatorWidthMin {
		return separatorWidthMin
	}
	if width > separatorWidthMax {
		return separatorWidthMax
	}
	return width
}
