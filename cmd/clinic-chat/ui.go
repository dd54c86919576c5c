package main

import (
	"context"
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/rexlx/clinicdesk/internal/chat"
)

var (
	messagesBox *fyne.Container
	scrollBox   *container.Scroll
	stateLabel  *widget.Label
)

// MakeChatScreen builds the single chat view: transcript, typing indicator,
// input bar and the restart button that abandons the session.
func MakeChatScreen(conv *chat.Conversation) fyne.CanvasObject {
	messagesBox = container.NewVBox()
	scrollBox = container.NewVScroll(messagesBox)

	stateLabel = widget.NewLabel("")
	stateLabel.Hide()

	input := NewChatEntry()
	input.SetPlaceHolder("Type your message here...")

	send := func(text string) {
		input.SetText("")
		go func(t string) {
			// ErrBusy just means a reply is still pending; the transcript
			// already shows the thinking bubble, nothing else to do.
			_ = conv.Send(context.Background(), t)
		}(text)
	}
	input.OnSubmit = send

	sendBtn := widget.NewButtonWithIcon("", theme.MailSendIcon(), func() {
		if input.Text != "" {
			send(input.Text)
		}
	})

	resetBtn := widget.NewButtonWithIcon("Restart", theme.ViewRefreshIcon(), func() {
		if err := conv.Reset(); err != nil {
			messagesBox.Add(widget.NewLabel("Could not restart the conversation: " + err.Error()))
		}
	})

	conv.OnChange = func() {
		fyne.Do(func() { renderConversation(conv) })
	}
	renderConversation(conv)

	header := container.NewBorder(nil, nil,
		widget.NewLabelWithStyle("Clinic Assistant", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		resetBtn,
	)
	inputBar := container.NewBorder(nil, nil, nil, sendBtn, input)

	return container.NewBorder(
		container.NewVBox(container.NewPadded(header), stateLabel, widget.NewSeparator()),
		container.NewPadded(inputBar),
		nil, nil,
		container.NewPadded(scrollBox),
	)
}

// renderConversation redraws the transcript from the controller's state.
// Always called on the fyne goroutine.
func renderConversation(conv *chat.Conversation) {
	messagesBox.Objects = nil

	for _, m := range conv.Messages() {
		messagesBox.Add(messageBubble(m))
	}
	if conv.Sending() {
		thinking := widget.NewLabel("Thinking...")
		thinking.TextStyle = fyne.TextStyle{Italic: true}
		messagesBox.Add(container.NewVBox(roleHeader(chat.RoleAssistant), thinking))
	}

	if state := conv.SessionState(); state != nil {
		if pid, ok := state["patient_id"]; ok {
			stateLabel.SetText(fmt.Sprintf("Identified Patient ID: %v", pid))
			stateLabel.Show()
		}
	} else {
		stateLabel.Hide()
	}

	messagesBox.Refresh()
	scrollBox.ScrollToBottom()
}

func messageBubble(m chat.Message) fyne.CanvasObject {
	body := widget.NewLabel(m.Text)
	body.Wrapping = fyne.TextWrapWord
	return container.NewVBox(roleHeader(m.Role), body)
}

func roleHeader(role chat.Role) fyne.CanvasObject {
	name := "Assistant"
	col := color.RGBA{R: 100, G: 116, B: 139, A: 255}
	if role == chat.RoleUser {
		name = "You"
		col = color.RGBA{R: 59, G: 130, B: 246, A: 255}
	}
	header := canvas.NewText(name, col)
	header.TextSize = 10
	return header
}
