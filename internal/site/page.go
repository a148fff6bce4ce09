package site

import "strings"

// Page is one renderable page of the simulated site. Pages are created once,
// so a pointer identifies the rendered output.
type Page struct {
	Path     string `json:"path"`
	Title    string `json:"title"`
	Markdown string `json:"markdown"`
}

func newPage(path, markdown string) *Page {
	return &Page{Path: path, Title: title(path, markdown), Markdown: markdown}
}

// title returns the first level-one heading, or the path.
func title(path, markdown string) string {
	for _, line := range strings.Split(markdown, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(line[2:])
		}
	}
	return path
}
