package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Zachkp/soc-portfolio/internal/config"
	"github.com/Zachkp/soc-portfolio/internal/content"
	"github.com/Zachkp/soc-portfolio/internal/tui"
	"github.com/Zachkp/soc-portfolio/internal/view"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the portfolio in the terminal",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	v := view.New(uuid.New(), view.Options{Scan: scanConfig(cfg)})
	defer v.Dispose()

	p := tea.NewProgram(
		tui.New(v, content.Default()),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run terminal UI: %w", err)
	}
	return nil
}
