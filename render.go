package main

import (
	"fmt"
	"strings"

	"github.com/mrdg/cinva/ambient"
)

func renderStatus(state ambient.State, store *ambient.Store) string {
	speaker := "🔈"
	if !state.Audible() {
		speaker = "🔇"
	}
	header := fmt.Sprintf("%s %s", speaker, colorize(state.String(), stateColor(state)))
	return header + "\n" + renderSettings(store)
}

func stateColor(s ambient.State) int {
	switch s {
	case ambient.Active:
		return colorGreen
	case ambient.Muted:
		return colorYellow
	case ambient.Backgrounded:
		return colorBlue
	default:
		return colorRed
	}
}

// renderSettings lists every field with its current value. Levels get a bar
// from the lowest to the highest value they accept.
func renderSettings(store *ambient.Store) string {
	var maxNameLen int
	for _, field := range ambient.Fields {
		if len(field) > maxNameLen {
			maxNameLen = len(field)
		}
	}

	var rows []string
	for _, field := range ambient.Fields {
		v, err := store.Get(field)
		if err != nil {
			continue
		}
		name := colorize(field+strings.Repeat(" ", maxNameLen-len(field)), colorBlue)
		row := fmt.Sprintf("  %s  %-8v", name, format(v))
		if lo, hi, ok := fieldRange(field); ok {
			row += " " + colorize(bar(v.(float64), lo, hi), colorMagenta)
		}
		rows = append(rows, row)
	}
	return strings.Join(rows, "\n")
}

func format(v interface{}) string {
	if f, ok := v.(float64); ok {
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.3f", f), "0"), ".")
	}
	return fmt.Sprint(v)
}

func fieldRange(field string) (lo, hi float64, ok bool) {
	switch field {
	case ambient.FieldWindVolume, ambient.FieldSynthVolume:
		return ambient.MinVolume, ambient.MaxVolume, true
	case ambient.FieldFilterSpeed:
		return ambient.MinFilterSpeed, ambient.MaxFilterSpeed, true
	case ambient.FieldFilterDepth:
		return ambient.MinFilterDepth, ambient.MaxFilterDepth, true
	case ambient.FieldDensity:
		return 0, 1, true
	}
	return 0, 0, false
}

func bar(v, lo, hi float64) string {
	const width = 20
	n := int((v - lo) / (hi - lo) * width)
	if n < 0 {
		n = 0
	} else if n > width {
		n = width
	}
	return strings.Repeat("█", n) + strings.Repeat("░", width-n)
}

const (
	colorBlack = iota + 30
	colorRed
	colorGreen
	colorYellow
	colorBlue
	colorMagenta
)

func colorize(text string, color int) string {
	return fmt.Sprintf("\033[%dm%s\033[0m", color, text)
}
