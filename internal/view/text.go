package view

import (
	"fmt"
	"io"
	"strings"
)

// WriteText renders v for a terminal. Destinations are listed in marker
// order so a player can pick one by its id.
func WriteText(w io.Writer, v View) error {
	var b strings.Builder

	if v.Alert != "" {
		fmt.Fprintf(&b, "! %s\n", v.Alert)
	}
	if v.Notice != "" {
		fmt.Fprintf(&b, "* %s\n", v.Notice)
	}

	if v.Modal.Visible {
		if len(v.Markers) > 0 {
			writePanel(&b, v.Panel)
		}
		b.WriteString("Enter your name to start a new game.\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	writePanel(&b, v.Panel)
	for _, m := range v.Markers {
		if m.Fly == nil {
			fmt.Fprintf(&b, "  [*] %-5s %s\n", m.ID, m.Popup.Title)
			continue
		}
		fmt.Fprintf(&b, "  [ ] %-5s %s (%s)\n", m.ID, m.Name, strings.ToLower(m.Popup.Distance))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writePanel(b *strings.Builder, p Panel) {
	fmt.Fprintf(b, "Player: %s\n", p.Player)
	fmt.Fprintf(b, "Location: %s\n", p.CurrentLocation)
	fmt.Fprintf(b, "Remaining: %s, %s\n", p.RemainingDistance, p.RemainingTime)
	fmt.Fprintf(b, "Goals found: %d\n", p.GoalsFound)
}
