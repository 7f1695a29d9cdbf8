package tui

import "github.com/charmbracelet/lipgloss"

// SOC console palette
var (
	ColorBg     = lipgloss.Color("#05080D")
	ColorPanel  = lipgloss.Color("#0B121B")
	ColorBorder = lipgloss.Color("#1C2A3A")

	ColorFg    = lipgloss.Color("#C9D4E0")
	ColorMuted = lipgloss.Color("#6B7C8F")

	ColorCyan  = lipgloss.Color("#22D3EE")
	ColorGreen = lipgloss.Color("#34D399")
	ColorAmber = lipgloss.Color("#FBBF24")
	ColorRed   = lipgloss.Color("#F87171")
	ColorWhite = lipgloss.Color("#FFFFFF")
)

var (
	BrandStyle = lipgloss.NewStyle().
			Foreground(ColorFg).
			Bold(true)

	BrandAccentStyle = lipgloss.NewStyle().
				Foreground(ColorCyan).
				Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	PillStyle = lipgloss.NewStyle().
			Foreground(ColorGreen).
			Border(lipgloss.NormalBorder()).
			BorderForeground(ColorGreen).
			Padding(0, 1)

	TabStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 2)

	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(ColorCyan).
			Bold(true).
			Underline(true).
			Padding(0, 2)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1).
			MarginBottom(1)

	PanelTitleStyle = lipgloss.NewStyle().
			Foreground(ColorCyan).
			Bold(true)

	MetaStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	TokenStyle = lipgloss.NewStyle().
			Foreground(ColorFg).
			Background(ColorPanel).
			Padding(0, 1)

	TerminalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorGreen).
			Padding(0, 1).
			MarginBottom(1)

	CursorStyle = lipgloss.NewStyle().
			Foreground(ColorGreen).
			Blink(true)

	OverlayStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(ColorCyan).
			Padding(1, 3).
			Align(lipgloss.Center)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)
)

// severityStyles colours the prefix of a terminal line.
var severityStyles = map[string]lipgloss.Style{
	"info":    lipgloss.NewStyle().Foreground(ColorCyan),
	"success": lipgloss.NewStyle().Foreground(ColorGreen),
	"warning": lipgloss.NewStyle().Foreground(ColorAmber),
	"error":   lipgloss.NewStyle().Foreground(ColorRed),
	"cmd":     lipgloss.NewStyle().Foreground(ColorGreen).Bold(true),
}

func severityStyle(severity string) lipgloss.Style {
	if s, ok := severityStyles[severity]; ok {
		return s
	}
	return lipgloss.NewStyle().Foreground(ColorFg)
}
