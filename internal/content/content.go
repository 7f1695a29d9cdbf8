// Package content holds the hardcoded portfolio data.
package content

import (
	"strings"
	"time"

	"github.com/Zachkp/soc-portfolio/internal/terminal"
)

// SkillDelimiter separates the items of a SkillGroup.
const SkillDelimiter = ", "

type ExperienceEntry struct {
	Role     string   `json:"role" yaml:"role"`
	Company  string   `json:"company" yaml:"company"`
	Location string   `json:"location" yaml:"location"`
	Period   string   `json:"period" yaml:"period"`
	Points   []string `json:"points" yaml:"points"`
}

type SkillGroup struct {
	Category string `json:"category" yaml:"category"`
	Items    string `json:"items" yaml:"items"`
}

// Tokens splits Items on SkillDelimiter, trimming blanks.
func (g SkillGroup) Tokens() []string {
	return SplitItems(g.Items)
}

// SplitItems splits a comma-delimited skill list into trimmed tokens.
func SplitItems(items string) []string {
	parts := strings.Split(items, strings.TrimSpace(SkillDelimiter))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

type CertificateEntry struct {
	Name   string `json:"name" yaml:"name"`
	Issuer string `json:"issuer" yaml:"issuer"`
}

type EducationEntry struct {
	Degree      string `json:"degree" yaml:"degree"`
	Field       string `json:"field" yaml:"field"`
	Institution string `json:"institution" yaml:"institution"`
	Graduated   string `json:"graduated" yaml:"graduated"`
}

type ContactKind string

const (
	ContactEmail    ContactKind = "email"
	ContactLinkedIn ContactKind = "linkedin"
)

type ContactLink struct {
	Kind    ContactKind `json:"kind" yaml:"kind"`
	Label   string      `json:"label" yaml:"label"`
	Href    string      `json:"href" yaml:"href"`
	Display string      `json:"display" yaml:"display"`
}

// StatusItem is one row of the sidebar security status panel.
type StatusItem struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// Portfolio is every table the page renders.
type Portfolio struct {
	Copy         Copy               `json:"copy" yaml:"copy"`
	Experience   []ExperienceEntry  `json:"experience" yaml:"experience"`
	Skills       []SkillGroup       `json:"skills" yaml:"skills"`
	Certificates []CertificateEntry `json:"certificates" yaml:"certificates"`
	Education    []EducationEntry   `json:"education" yaml:"education"`
	Contacts     []ContactLink      `json:"contacts" yaml:"contacts"`
	Status       []StatusItem       `json:"status" yaml:"status"`
	Terminal     []terminal.Line    `json:"terminal" yaml:"terminal"`
}

// Default returns the site's portfolio. The slices are shared; callers must
// not modify them.
func Default() Portfolio {
	return Portfolio{
		Copy:         PageCopy,
		Experience:   Experience,
		Skills:       Skills,
		Certificates: Certificates,
		Education:    Education,
		Contacts:     Contacts,
		Status:       SecurityStatus,
		Terminal:     TerminalScript,
	}
}

var Experience = []ExperienceEntry{
	{
		Role:     "Security Analyst",
		Company:  "Northland Properties Corporation",
		Location: "Vancouver, BC",
		Period:   "Sep 2024 - Present",
		Points: []string{
			"Configured, deployed, and optimized security platforms, including SIEM, EDR, firewalls, and cloud security tools.",
			"Investigated security incidents and alerts using Microsoft Sentinel, Defender XDR, and Log Analytics.",
			"Conducted static and dynamic malware analysis using tools like PeStudio, Floss, and Wireshark.",
			"Performed vulnerability assessments and implemented mitigation strategies to improve security posture.",
			"Authored detailed incident reports and provided actionable recommendations for cyber resilience.",
			"Implemented Microsoft Purview policies, including Data Loss Prevention (DLP).",
			"Strengthened cybersecurity defenses by mitigating phishing, backdoors, and APTs.",
			"Led cybersecurity awareness programs and phishing simulations for employee training.",
		},
	},
	{
		Role:     "IT Support Analyst - 2",
		Company:  "Northland Properties Corporation",
		Location: "Vancouver, BC",
		Period:   "Feb 2024 - Dec 2024",
		Points: []string{
			"Managed Active Directory and Microsoft Entra ID, administering user accounts and permissions.",
			"Configured and maintained firewalls, VPNs, and network security policies.",
			"Monitored system logs to detect security incidents and responded promptly.",
			"Collaborated with cross-functional teams for Azure, Intune, Sentinel, and Cisco Meraki.",
			"Assisted in email security and compliance, resolving M365 security incidents.",
			"Supported vulnerability management, patch deployment, and endpoint hardening.",
		},
	},
	{
		Role:     "Junior System Administrator",
		Company:  "Northland Properties Corporation",
		Location: "Vancouver, BC",
		Period:   "Nov 2022 - Feb 2024",
		Points: []string{
			"Delivered IT support across 60+ hotels and 150+ restaurants, resolving 3,000+ tickets.",
			"Administered user accounts, groups, and security policies across AD and M365.",
			"Configured and maintained network resources, ensuring secure access via RDP and VPN.",
			"Conducted system maintenance and security updates to mitigate infrastructure risks.",
		},
	},
}

var Skills = []SkillGroup{
	{Category: "Cloud Security & Identity", Items: "Azure Security, Microsoft Sentinel, Conditional Access, Azure Information Protection, Microsoft Entra, Purview, Intune"},
	{Category: "Threat Detection & IR", Items: "SIEM Analysis, Threat Hunting, Malware Analysis, Vulnerability Assessment, Forensic Analysis"},
	{Category: "Network Security", Items: "Firewall Management, IPS/IDS, Network Protocols, Data Loss Prevention (DLP)"},
	{Category: "Malware Analysis Tools", Items: "PeStudio, Floss, Process Hacker, ProcMon, Regshot, Wireshark, INetSim"},
	{Category: "Tools & Scripting", Items: "Wireshark, Nmap, Nessus, Brim, Burp Suite, Metasploit, Python, PowerShell, Bash, SQL"},
}

var Certificates = []CertificateEntry{
	{Name: "Certified Ethical Hacker (CEH) - Practical", Issuer: "EC-Council"},
	{Name: "Blue Team Level 1 (BTLO)", Issuer: "Security Blue Team"},
	{Name: "CompTIA Security+ (SY0-601)", Issuer: "CompTIA"},
	{Name: "Sophos Firewall Certified Administrator V20.0", Issuer: "Sophos"},
}

var Education = []EducationEntry{
	{Degree: "Master of Science", Field: "CyberSecurity", Institution: "New York Institute of Technology", Graduated: "Graduated 2022"},
	{Degree: "Bachelor of Engineering", Field: "Information Technology", Institution: "Gujarat Technological University", Graduated: "Graduated 2019"},
}

var Contacts = []ContactLink{
	{Kind: ContactEmail, Label: "Email", Href: "mailto:patelroshan5349@gmail.com", Display: "thecyberpatel@gmail.com"},
	{Kind: ContactLinkedIn, Label: "LinkedIn", Href: "https://linkedin.com/in/roshankumar-patel", Display: "roshankumar-patel"},
}

var SecurityStatus = []StatusItem{
	{Label: "FIREWALL", Value: "ACTIVE"},
	{Label: "SSL ENCRYPTION", Value: "AES-256"},
	{Label: "THREAT DEFENSE", Value: "ENABLED"},
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

// TerminalScript is the profile tab's whoami animation.
var TerminalScript = []terminal.Line{
	{Text: "whoami", Delay: ms(500), Severity: terminal.Command},
	{Text: "Name: Roshan Patel", Delay: ms(1000), Severity: terminal.Info},
	{Text: "Focus: Information Security & Threat Analysis", Delay: ms(1200), Severity: terminal.Info},
	{Text: "Status: Active Operations @ Northland Properties", Delay: ms(1400), Severity: terminal.Info},

	{Text: "grep --level=high 'Current Focus'", Delay: ms(2000), Severity: terminal.Command},
	{Text: "> SIEM Optimization (Microsoft Sentinel)", Delay: ms(2300), Severity: terminal.Success},
	{Text: "> Threat Hunting & Malware Analysis", Delay: ms(2500), Severity: terminal.Success},
	{Text: "> Vulnerability Assessment & Mitigation", Delay: ms(2700), Severity: terminal.Success},
	{Text: "> Cloud Identity Management (Azure/M365)", Delay: ms(2900), Severity: terminal.Success},

	{Text: "./verify_environment.sh", Delay: ms(3500), Severity: terminal.Command},
	{Text: "Checking authentication tokens...", Delay: ms(3800), Severity: terminal.Warning},
	{Text: "Environment verified. Content decrypted for viewing.", Delay: ms(4500), Severity: terminal.Success},
}
