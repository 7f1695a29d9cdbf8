// Package render turns view state and the static tables into display
// structures shared by the HTML templates and the TUI.
package render

import (
	"strconv"

	"github.com/Zachkp/soc-portfolio/internal/content"
	"github.com/Zachkp/soc-portfolio/internal/terminal"
	"github.com/Zachkp/soc-portfolio/internal/view"
)

// TabLink is one navigation entry.
type TabLink struct {
	Tag    string
	Label  string
	Active bool
}

// TerminalLine is a revealed line with its prefix and severity class resolved.
type TerminalLine struct {
	Prefix   string
	Text     string
	Severity string
}

// TerminalBlock is the terminal panel. Running is set until every line is shown.
type TerminalBlock struct {
	Host    string
	Lines   []TerminalLine
	Total   int
	Running bool
}

type ExperienceBlock struct {
	Role     string
	Company  string
	Location string
	Period   string
	Points   []string
}

type SkillBlock struct {
	Category string
	Tokens   []string
}

type CertificateBlock struct {
	Name   string
	Issuer string
}

type ExperienceSection struct {
	Title   string
	Entries []ExperienceBlock
}

type SkillsSection struct {
	Title  string
	Groups []SkillBlock
}

type CertificatesSection struct {
	Title   string
	Entries []CertificateBlock
}

// Sidebar holds the panels shown beside every tab.
type Sidebar struct {
	Education []content.EducationEntry
	Contacts  []content.ContactLink
	Blurb     string
	Status    []content.StatusItem
}

// ScanOverlay drives both the scan button label and the progress overlay.
type ScanOverlay struct {
	Active   bool
	Progress int
	Button   string
	Title    string
	Blurb    string
}

// Page is everything one render needs. Nil blocks are not shown.
type Page struct {
	ViewID       string
	Tab          view.Tab
	Copy         content.Copy
	Nav          []TabLink
	Terminal     *TerminalBlock
	Experience   *ExperienceSection
	Skills       *SkillsSection
	Certificates *CertificatesSection
	Sidebar      Sidebar
	Scan         ScanOverlay
}

// Empty reports whether the main column has nothing to show.
func (p Page) Empty() bool {
	return p.Terminal == nil && p.Experience == nil && p.Skills == nil && p.Certificates == nil
}

// Build renders s against p.
func Build(s view.State, p content.Portfolio) Page {
	page := Page{
		ViewID: s.ID.String(),
		Tab:    s.ActiveTab,
		Copy:   p.Copy,
		Nav:    Nav(s.ActiveTab),
		Sidebar: Sidebar{
			Education: p.Education,
			Contacts:  p.Contacts,
			Blurb:     p.Copy.ContactBlurb,
			Status:    p.Status,
		},
		Scan: Scan(s, p.Copy),
	}

	if s.TerminalShown {
		page.Terminal = Terminal(s, p.Copy.TerminalHost)
	}
	if s.ActiveTab.Shows(view.SectionExperience) {
		page.Experience = Experience(p.Experience)
	}
	if s.ActiveTab.Shows(view.SectionSkills) {
		page.Skills = Skills(p.Skills)
	}
	if s.ActiveTab.Shows(view.SectionCertificates) {
		page.Certificates = Certificates(p.Certificates)
	}
	return page
}

func Nav(active view.Tab) []TabLink {
	tabs := view.Tabs()
	links := make([]TabLink, len(tabs))
	for i, t := range tabs {
		links[i] = TabLink{Tag: t.String(), Label: t.String(), Active: t == active}
	}
	return links
}

func Terminal(s view.State, host string) *TerminalBlock {
	lines := make([]TerminalLine, len(s.TerminalLines))
	for i, l := range s.TerminalLines {
		lines[i] = Line(l)
	}
	return &TerminalBlock{
		Host:    host,
		Lines:   lines,
		Total:   s.TerminalTotal,
		Running: len(lines) < s.TerminalTotal,
	}
}

func Line(l terminal.Line) TerminalLine {
	return TerminalLine{Prefix: l.Severity.Prefix(), Text: l.Text, Severity: l.Severity.String()}
}

func Experience(entries []content.ExperienceEntry) *ExperienceSection {
	out := make([]ExperienceBlock, len(entries))
	for i, e := range entries {
		out[i] = ExperienceBlock{
			Role:     e.Role,
			Company:  e.Company,
			Location: e.Location,
			Period:   e.Period,
			Points:   e.Points,
		}
	}
	return &ExperienceSection{Title: "Operational History", Entries: out}
}

func Skills(groups []content.SkillGroup) *SkillsSection {
	out := make([]SkillBlock, len(groups))
	for i, g := range groups {
		out[i] = SkillBlock{Category: g.Category, Tokens: g.Tokens()}
	}
	return &SkillsSection{Title: "Technical Arsenal", Groups: out}
}

func Certificates(certs []content.CertificateEntry) *CertificatesSection {
	out := make([]CertificateBlock, len(certs))
	for i, c := range certs {
		out[i] = CertificateBlock{Name: c.Name, Issuer: c.Issuer}
	}
	return &CertificatesSection{Title: "Verified Credentials", Entries: out}
}

func Scan(s view.State, c content.Copy) ScanOverlay {
	o := ScanOverlay{
		Active:   s.ScanActive,
		Progress: s.ScanProgress,
		Button:   "SCAN",
		Title:    c.ScanTitle,
		Blurb:    c.ScanBlurb,
	}
	if s.ScanActive {
		o.Button = strconv.Itoa(s.ScanProgress) + "%"
	}
	return o
}
