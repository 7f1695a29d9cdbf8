package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitItems(t *testing.T) {
	tests := []struct {
		name  string
		items string
		want  []string
	}{
		{"three tokens", "A, B, C", []string{"A", "B", "C"}},
		{"single", "Wireshark", []string{"Wireshark"}},
		{"parenthesised", "Firewall Management, Data Loss Prevention (DLP)", []string{"Firewall Management", "Data Loss Prevention (DLP)"}},
		{"blank entries dropped", "A, , B,", []string{"A", "B"}},
		{"empty", "", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitItems(tt.items))
		})
	}
}

func TestTerminalScriptDelaysIncrease(t *testing.T) {
	for i := 1; i < len(TerminalScript); i++ {
		assert.Greater(t, TerminalScript[i].Delay, TerminalScript[i-1].Delay,
			"line %d (%q) must come after line %d", i, TerminalScript[i].Text, i-1)
	}
}

func TestDefaultPortfolio(t *testing.T) {
	p := Default()
	assert.Len(t, p.Experience, 3)
	assert.Len(t, p.Skills, 5)
	assert.Len(t, p.Certificates, 4)
	assert.Len(t, p.Terminal, 12)
	for _, g := range p.Skills {
		assert.NotEmpty(t, g.Tokens(), g.Category)
	}
	for _, c := range p.Contacts {
		assert.NotEmpty(t, c.Href)
	}
}

func TestCopyIsSingleLine(t *testing.T) {
	for name, text := range map[string]string{
		"tagline":       PageCopy.Tagline,
		"contact blurb": PageCopy.ContactBlurb,
	} {
		assert.NotContains(t, text, "\n", name)
		assert.NotContains(t, text, "\t", name)
	}
}
