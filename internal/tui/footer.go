package tui

import (
	"github.com/charmbracelet/bubbles/help"
)

// FooterModel renders the status indicator and the key help.
type FooterModel struct {
	help   help.Model
	keymap KeyMap
	paused bool
	done   bool
	err    error
	width  int
}

// NewFooterModel creates a footer for keymap.
func NewFooterModel(keymap KeyMap) FooterModel {
	return FooterModel{help: help.New(), keymap: keymap}
}

func (f *FooterModel) SetPaused(p bool) { f.paused = p }

func (f *FooterModel) SetDone(err error) { f.done, f.err = true, err }

func (f *FooterModel) ToggleHelp() { f.help.ShowAll = !f.help.ShowAll }

func (f *FooterModel) SetWidth(w int) {
	f.width = w
	f.help.Width = w
}

// View renders the footer.
func (f FooterModel) View() string {
	var status string
	switch {
	case f.err != nil:
		status = errorStyle.Render("Error: " + f.err.Error())
	case f.done:
		status = statusDoneStyle.Render("Stopped")
	case f.paused:
		status = statusPausedStyle.Render("Paused")
	default:
		status = statusRunningStyle.Render("Sampling")
	}
	return " " + status + "  " + f.help.View(f.keymap)
}
