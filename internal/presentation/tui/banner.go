package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []string{
	`              _ _       _             `,
	` __      _____| | |_ __ | | __ _ _ __  `,
	` \ \ /\ / / _ \ | | '_ \| |/ _' | '_ \ `,
	`  \ V  V /  __/ | | |_) | | (_| | | | |`,
	`   \_/\_/ \___|_|_| .__/|_|\__,_|_| |_|`,
	`                  |_|                  `,
}

var bannerColors = []string{"#22d3ee", "#38bdf8", "#60a5fa", "#818cf8", "#a78bfa", "#c084fc"}

// PrintBanner writes the wellplan banner in the given color profile.
func PrintBanner(w io.Writer, p termenv.Profile) {
	fmt.Fprintln(w)
	for i, line := range bannerLines {
		fmt.Fprintln(w, p.String(line).Foreground(p.Color(bannerColors[i])))
	}
	fmt.Fprintln(w)
}
