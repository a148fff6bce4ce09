package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the Curtain banner to w.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{`   ____           _        _       `, "#818cf8"},
		{`  / ___|   _ _ __| |_ __ _(_)_ __  `, "#a78bfa"},
		{` | |  | | | | '__| __/ _' | | '_ \ `, "#c084fc"},
		{` | |__| |_| | |  | || (_| | | | | |`, "#e879f9"},
		{`  \____\__,_|_|   \__\__,_|_|_| |_|`, "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w)
}
