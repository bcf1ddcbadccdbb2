package main

import (
	"fmt"
	"strings"

	"objgram/codec"

	"github.com/charmbracelet/lipgloss"
)

var (
	fromStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	keyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	valueStyle = lipgloss.NewStyle()
)

func renderPayload(from string, p codec.Payload) string {
	width := 0
	for k := range p {
		width = max(width, lipgloss.Width(k))
	}

	var sb strings.Builder
	sb.WriteString(fromStyle.Render("from "+from) + "\n")
	for _, k := range p.Keys() {
		sb.WriteString("  " + keyStyle.Width(width).Render(k) + "  " + valueStyle.Render(p[k]) + "\n")
	}
	return sb.String()
}

func renderValue(from string, v any) string {
	return fromStyle.Render("from "+from) + "\n  " + valueStyle.Render(fmt.Sprintf("%T %v", v, v)) + "\n"
}
