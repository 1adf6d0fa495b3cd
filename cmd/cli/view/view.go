package view

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/linecard/samlstack/pkg/convention/provision"
	"github.com/linecard/samlstack/pkg/convention/release"
	"github.com/linecard/samlstack/pkg/convention/stack"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

var (
	ColorPrimary = lipgloss.Color("#7C3AED")
	ColorCreate  = lipgloss.Color("#10B981")
	ColorUpdate  = lipgloss.Color("#F59E0B")
	ColorDelete  = lipgloss.Color("#EF4444")
	ColorMuted   = lipgloss.Color("#6B7280")
)

var (
	nameStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	mutedStyle  = lipgloss.NewStyle().Foreground(ColorMuted)
	createStyle = lipgloss.NewStyle().Foreground(ColorCreate)
	updateStyle = lipgloss.NewStyle().Foreground(ColorUpdate)
	deleteStyle = lipgloss.NewStyle().Foreground(ColorDelete)
	hintStyle   = lipgloss.NewStyle().Italic(true).Foreground(ColorUpdate)
)

// Encode renders v as indented json or as yaml.
func Encode(v any, asJson bool) (string, error) {
	if asJson {
		b, err := json.MarshalIndent(v, "", "  ")
		return string(b), err
	}

	b, err := yaml.Marshal(v)
	return strings.TrimSuffix(string(b), "\n"), err
}

func width(names []string) int {
	w := 0
	for _, name := range names {
		if len(name) > w {
			w = len(name)
		}
	}
	return w + 2
}

func Outputs(values []stack.OutputValue) string {
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = v.Name
	}

	column := nameStyle.Width(width(names))

	var b strings.Builder
	for _, v := range values {
		fmt.Fprintf(&b, "%s%s  %s\n", column.Render(v.Name), v.Value, mutedStyle.Render(v.Description))
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func Changes(changes []provision.Change) string {
	ids := make([]string, len(changes))
	for i, c := range changes {
		ids[i] = c.LogicalId
	}

	column := lipgloss.NewStyle().Width(width(ids))

	var b strings.Builder
	for _, c := range changes {
		var style lipgloss.Style
		var mark string

		switch c.Action {
		case provision.ActionCreate:
			style, mark = createStyle, "+"
		case provision.ActionUpdate:
			style, mark = updateStyle, "~"
		case provision.ActionDelete:
			style, mark = deleteStyle, "-"
		default:
			style, mark = mutedStyle, "="
		}

		fmt.Fprintf(&b, "%s %s%s\n", style.Render(mark), column.Render(c.LogicalId), mutedStyle.Render(string(c.Kind)))
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func Releases(keep []release.ReleaseSummary, remove []string) string {
	var b strings.Builder

	for _, r := range keep {
		fmt.Fprintf(&b, "%s %s %s\n", createStyle.Render("keep"), r.ImageDigest, mutedStyle.Render(r.Released))
	}

	for _, digest := range remove {
		fmt.Fprintf(&b, "%s %s\n", deleteStyle.Render("drop"), digest)
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func Hint(format string, a ...any) string {
	return hintStyle.Render(fmt.Sprintf(format, a...))
}

// WriteOutputs writes name: value pairs, picking json or yaml from the file extension.
func WriteOutputs(path string, values []stack.OutputValue) error {
	flat := make(map[string]string, len(values))
	for _, v := range values {
		flat[v.Name] = v.Value
	}

	var body []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		body, err = json.MarshalIndent(flat, "", "  ")
		body = append(body, '\n')
	case ".yaml", ".yml":
		body, err = yaml.Marshal(flat)
	default:
		return fmt.Errorf("outputs file %s must end in .json, .yaml or .yml", path)
	}

	if err != nil {
		return err
	}

	return os.WriteFile(path, body, 0o644)
}
