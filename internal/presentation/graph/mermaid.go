package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/curtain/pkg/ports"
)

// Overlay contains dynamic state to highlight on the graph.
type Overlay struct {
	Current string
}

type edge struct{ from, to string }

// GenerateMermaid produces a Mermaid flowchart of the site: one node per
// page and one edge per observed navigation, labelled with how often it
// happened. Edges come from journal entries.
// The root page is drawn as a circle. Pages only reachable through the
// journal (no longer configured) are drawn with a dashed border.
func GenerateMermaid(pages []string, entries []ports.JournalEntry, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	known := make(map[string]bool, len(pages))
	for _, p := range pages {
		known[p] = true
	}

	counts := make(map[edge]int)
	var order []edge
	extra := make(map[string]bool)
	for i := len(entries) - 1; i >= 0; i-- { // oldest first
		e := edge{entries[i].From, entries[i].To}
		if counts[e] == 0 {
			order = append(order, e)
		}
		counts[e]++
		for _, p := range []string{e.from, e.to} {
			if p != "" && !known[p] {
				extra[p] = true
			}
		}
	}

	for _, p := range pages {
		opener, closer := "[", "]"
		if p == "/" {
			opener, closer = "((", "))"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", nodeID(p), opener, p, closer))
	}
	stale := make([]string, 0, len(extra))
	for p := range extra {
		stale = append(stale, p)
	}
	sort.Strings(stale)
	for _, p := range stale {
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", nodeID(p), p))
	}

	for _, e := range order {
		if e.from == "" || e.to == "" {
			continue
		}
		arrow := "-->"
		if n := counts[e]; n > 1 {
			arrow = fmt.Sprintf("-- \"x%d\" -->", n)
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", nodeID(e.from), arrow, nodeID(e.to)))
	}

	if len(stale) > 0 || overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
	}
	if len(stale) > 0 {
		sb.WriteString("    classDef stale stroke-dasharray:5 5;\n")
		for _, p := range stale {
			sb.WriteString(fmt.Sprintf("    class %s stale;\n", nodeID(p)))
		}
	}
	if overlay != nil && overlay.Current != "" {
		// Force black text (color:#000) for contrast regardless of theme.
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		sb.WriteString(fmt.Sprintf("    class %s current;\n", nodeID(overlay.Current)))
	}

	return sb.String()
}

func nodeID(path string) string {
	return "p" + sanitizeMermaidID(path)
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
