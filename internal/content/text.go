package content

// Copy is the free text around the data tables.
type Copy struct {
	FirstName    string `json:"first_name" yaml:"first_name"`
	LastName     string `json:"last_name" yaml:"last_name"`
	Title        string `json:"title" yaml:"title"`
	ThreatLevel  string `json:"threat_level" yaml:"threat_level"`
	Release      string `json:"release" yaml:"release"`
	TerminalHost string `json:"terminal_host" yaml:"terminal_host"`
	ContactBlurb string `json:"contact_blurb" yaml:"contact_blurb"`
	Tagline      string `json:"tagline" yaml:"tagline"`
	BuildVersion string `json:"build_version" yaml:"build_version"`
	License      string `json:"license" yaml:"license"`
	Integrity    string `json:"integrity" yaml:"integrity"`
	Copyright    string `json:"copyright" yaml:"copyright"`
	ScanTitle    string `json:"scan_title" yaml:"scan_title"`
	ScanBlurb    string `json:"scan_blurb" yaml:"scan_blurb"`
}

var PageCopy = Copy{
	FirstName:    "ROSHAN",
	LastName:     "PATEL",
	Title:        "Security Analyst | Cybersecurity Professional",
	ThreatLevel:  "THREAT_LEVEL: LOW",
	Release:      "2025.SEC.STABLE",
	TerminalHost: "bash — root@roshan-patel — 80x24",
	ContactBlurb: "Secure channel available for brand building, networking, and career inquiries.",
	Tagline:      "Defending digital frontiers through SIEM optimization, advanced threat hunting, and strategic risk mitigation.",
	BuildVersion: "v3.0.0-SEC",
	License:      "ENCRYPTED",
	Integrity:    "VERIFIED",
	Copyright:    "© 2025 ROSHAN PATEL // SECURITY OPERATIONS CENTER PORTFOLIO",
	ScanTitle:    "System Scan In Progress",
	ScanBlurb:    "Analyzing portfolio integrity and verifying credentials...",
}
