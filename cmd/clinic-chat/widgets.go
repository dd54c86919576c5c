package main

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"
)

// ChatEntry is a MultiLineEntry that submits on Enter and inserts a newline
// on Shift+Enter.
type ChatEntry struct {
	widget.Entry
	OnSubmit func(string)
}

func NewChatEntry() *ChatEntry {
	e := &ChatEntry{}
	e.ExtendBaseWidget(e)
	e.MultiLine = true
	e.Wrapping = fyne.TextWrapWord
	return e
}

// TypedKey traps Enter for submission. On mobile the modifier check fails
// closed and Enter always submits.
func (e *ChatEntry) TypedKey(key *fyne.KeyEvent) {
	if key.Name == fyne.KeyReturn || key.Name == fyne.KeyEnter {
		shiftHeld := false
		if drv, ok := fyne.CurrentApp().Driver().(desktop.Driver); ok {
			if drv.CurrentKeyModifiers()&fyne.KeyModifierShift != 0 {
				shiftHeld = true
			}
		}

		if shiftHeld {
			e.Entry.TypedKey(key)
			return
		}

		if e.OnSubmit != nil && e.Text != "" {
			e.OnSubmit(e.Text)
		}
		return
	}

	e.Entry.TypedKey(key)
}

func (e *ChatEntry) Keyboard() mobile.KeyboardType {
	return mobile.DefaultKeyboard
}
