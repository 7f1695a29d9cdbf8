package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Zachkp/soc-portfolio/internal/render"
)

func renderNav(links []render.TabLink) string {
	tabs := make([]string, len(links))
	for i, l := range links {
		style := TabStyle
		if l.Active {
			style = ActiveTabStyle
		}
		tabs[i] = style.Render(strings.ToUpper(l.Label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// renderBody lays out the main column followed by the sidebar.
func renderBody(p render.Page, width int) string {
	inner := max(20, width-4)
	var blocks []string

	if p.Terminal != nil {
		blocks = append(blocks, renderTerminal(p.Terminal, inner))
	}
	if p.Experience != nil {
		blocks = append(blocks, renderExperience(p.Experience, inner))
	}
	if p.Skills != nil {
		blocks = append(blocks, renderSkills(p.Skills, inner))
	}
	if p.Certificates != nil {
		blocks = append(blocks, renderCertificates(p.Certificates, inner))
	}
	blocks = append(blocks, renderSidebar(p.Sidebar, inner))

	foot := MetaStyle.Render(p.Copy.Tagline + "\n" + p.Copy.Copyright)
	blocks = append(blocks, foot)
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

func renderTerminal(t *render.TerminalBlock, width int) string {
	var b strings.Builder
	b.WriteString(MetaStyle.Render(t.Host))
	for _, l := range t.Lines {
		b.WriteString("\n")
		b.WriteString(severityStyle(l.Severity).Render(l.Prefix))
		b.WriteString(" ")
		b.WriteString(l.Text)
	}
	if t.Running {
		b.WriteString("\n")
		b.WriteString(CursorStyle.Render("_"))
	}
	return TerminalStyle.Width(width).Render(b.String())
}

func renderExperience(s *render.ExperienceSection, width int) string {
	parts := []string{PanelTitleStyle.Render(strings.ToUpper(s.Title))}
	for _, e := range s.Entries {
		parts = append(parts,
			"",
			BrandStyle.Render(e.Role),
			MetaStyle.Render(e.Company+" // "+e.Location+" // "+e.Period),
		)
		for _, pt := range e.Points {
			parts = append(parts, "• "+pt)
		}
	}
	return PanelStyle.Width(width).Render(strings.Join(parts, "\n"))
}

func renderSkills(s *render.SkillsSection, width int) string {
	parts := []string{PanelTitleStyle.Render(strings.ToUpper(s.Title))}
	for _, g := range s.Groups {
		tokens := make([]string, len(g.Tokens))
		for i, tok := range g.Tokens {
			tokens[i] = TokenStyle.Render(tok)
		}
		parts = append(parts, "", BrandStyle.Render(g.Category), strings.Join(tokens, " "))
	}
	return PanelStyle.Width(width).Render(strings.Join(parts, "\n"))
}

func renderCertificates(s *render.CertificatesSection, width int) string {
	parts := []string{PanelTitleStyle.Render(strings.ToUpper(s.Title)), ""}
	for _, c := range s.Entries {
		parts = append(parts, BrandStyle.Render(c.Name)+"  "+MetaStyle.Render(c.Issuer))
	}
	return PanelStyle.Width(width).Render(strings.Join(parts, "\n"))
}

func renderSidebar(s render.Sidebar, width int) string {
	edu := []string{PanelTitleStyle.Render("EDUCATION")}
	for _, e := range s.Education {
		edu = append(edu, BrandStyle.Render(e.Degree), e.Field, MetaStyle.Render(e.Institution+" // "+e.Graduated))
	}

	contact := []string{PanelTitleStyle.Render("SECURE CHANNEL"), strings.Join(strings.Fields(s.Blurb), " ")}
	for _, c := range s.Contacts {
		contact = append(contact, MetaStyle.Render(c.Label)+" "+c.Display)
	}

	status := []string{PanelTitleStyle.Render("SECURITY STATUS")}
	for _, st := range s.Status {
		status = append(status, MetaStyle.Render(st.Label)+"  "+lipgloss.NewStyle().Foreground(ColorGreen).Render(st.Value))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		PanelStyle.Width(width).Render(strings.Join(edu, "\n")),
		PanelStyle.Width(width).Render(strings.Join(contact, "\n")),
		PanelStyle.Width(width).Render(strings.Join(status, "\n")),
	)
}
