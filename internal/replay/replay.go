// Package replay renders saved session transcripts.
package replay

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/suitools/suicli/internal/chat"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	userStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("170"))
	agentStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	timeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	bodyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	divider     = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).
			Render(strings.Repeat("━", 60))
)

// Render formats a transcript for display.
func Render(path string) (string, error) {
	msgs, err := chat.ReadTranscript(path)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(headerStyle.Render("TRANSCRIPT") + " " + bodyStyle.Render(path) + "\n")
	b.WriteString(divider + "\n\n")

	for _, msg := range msgs {
		label := userStyle.Render("You")
		if msg.Role == chat.RoleAgent {
			label = agentStyle.Render("Agent")
		}
		b.WriteString(fmt.Sprintf("%s %s\n", label,
			timeStyle.Render(msg.Timestamp.Local().Format(time.Kitchen))))
		b.WriteString(bodyStyle.Render(msg.Text) + "\n\n")
	}

	b.WriteString(divider + "\n")
	b.WriteString(timeStyle.Render(fmt.Sprintf("%d messages", len(msgs))) + "\n")
	return b.String(), nil
}

// Show renders the transcript into an interactive pager.
func Show(path string) error {
	content, err := Render(path)
	if err != nil {
		return err
	}
	return runPager("Transcript: "+path, content)
}

// Follow renders the transcript and keeps it updated as the session
// appends new messages.
func Follow(path string) error {
	render := func() (string, error) { return Render(path) }
	if _, err := render(); err != nil {
		return err
	}
	return runPagerLive("Transcript: "+path+" (LIVE)", path, render)
}
