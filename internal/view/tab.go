package view

import (
	"fmt"

	"github.com/Zachkp/soc-portfolio/internal/apperror"
)

// Tab is one of the five mutually exclusive page views.
type Tab int

const (
	Profile Tab = iota
	Experience
	Skills
	Certificates
	Contact
)

var tabNames = [...]string{
	Profile:      "profile",
	Experience:   "experience",
	Skills:       "skills",
	Certificates: "certificates",
	Contact:      "contact",
}

// Tabs lists every tab in navigation order.
func Tabs() []Tab {
	return []Tab{Profile, Experience, Skills, Certificates, Contact}
}

func (t Tab) String() string {
	if !t.Valid() {
		return fmt.Sprintf("tab(%d)", int(t))
	}
	return tabNames[t]
}

func (t Tab) Valid() bool {
	return t >= Profile && t <= Contact
}

// Next returns the tab after t, wrapping around.
func (t Tab) Next() Tab {
	return (t + 1) % Tab(len(tabNames))
}

// Prev returns the tab before t, wrapping around.
func (t Tab) Prev() Tab {
	return (t + Tab(len(tabNames)) - 1) % Tab(len(tabNames))
}

// ParseTab accepts exactly the lowercase tab tags.
func ParseTab(s string) (Tab, error) {
	for _, t := range Tabs() {
		if tabNames[t] == s {
			return t, nil
		}
	}
	return Profile, apperror.NewInvalidInput(fmt.Sprintf("unknown tab %q", s), nil)
}

func (t Tab) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("marshal %s: invalid tab", t)
	}
	return []byte(t.String()), nil
}

func (t *Tab) UnmarshalText(b []byte) error {
	parsed, err := ParseTab(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Section is a content block of the main column.
type Section int

const (
	SectionExperience Section = iota
	SectionSkills
	SectionCertificates
)

// Shows reports whether section is rendered under tab t. Profile shows
// every section; other tabs show only their own.
func (t Tab) Shows(section Section) bool {
	switch t {
	case Profile:
		return true
	case Experience:
		return section == SectionExperience
	case Skills:
		return section == SectionSkills
	case Certificates:
		return section == SectionCertificates
	case Contact:
		return false
	default:
		return false
	}
}
