package main

import (
	"context"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/rexlx/clinicdesk/internal/clinic"
)

// MakeLoginScreen builds the credential form. A failed login is reported
// inline; it never navigates anywhere.
func MakeLoginScreen(onSuccess func()) fyne.CanvasObject {
	userEntry := widget.NewEntry()
	userEntry.SetPlaceHolder("Username")

	passEntry := widget.NewPasswordEntry()
	passEntry.SetPlaceHolder("Password")

	errorLabel := widget.NewLabel("")
	errorLabel.Hide()

	loginBtn := widget.NewButton("Login", func() {
		go func(user, pass string) {
			err := api.Login(context.Background(), user, pass)
			fyne.Do(func() {
				if err != nil {
					errorLabel.SetText("Login failed. Make sure backend is running.")
					errorLabel.Show()
					return
				}
				onSuccess()
			})
		}(userEntry.Text, passEntry.Text)
	})
	loginBtn.Importance = widget.HighImportance

	form := container.NewVBox(
		widget.NewLabelWithStyle("Clinic Admin Login", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		widget.NewSeparator(),
		userEntry,
		passEntry,
		errorLabel,
		loginBtn,
	)

	return container.NewCenter(form)
}

// MakeDashboardScreen builds the three tabs over the shared cache and kicks
// off the initial load.
func MakeDashboardScreen() fyne.CanvasObject {
	searchEntry := widget.NewEntry()
	searchEntry.SetPlaceHolder("Search Date, Name or ID...")

	apptsBox := container.NewVBox()
	patientsBox := container.NewVBox()
	logsBox := container.NewVBox()

	render := func() {
		term := searchEntry.Text
		renderAppointments(apptsBox, clinic.FilterAppointments(dash.Appointments(), term))
		renderPatients(patientsBox, clinic.FilterPatients(dash.Patients(), term))
		renderLogs(logsBox, dash.Logs())
	}
	searchEntry.OnChanged = func(string) { render() }

	reload := func() {
		go func() {
			if err := dash.Load(context.Background()); err != nil {
				// A 401 already navigated to the login view via the
				// gateway hook; anything else just leaves stale data.
				return
			}
			fyne.Do(render)
		}()
	}

	logoutBtn := widget.NewButtonWithIcon("Logout", theme.LogoutIcon(), func() {
		_ = tokens.Clear()
		showLogin()
	})
	refreshBtn := widget.NewButtonWithIcon("Refresh", theme.ViewRefreshIcon(), func() { reload() })

	tabs := container.NewAppTabs(
		container.NewTabItem("Appts", container.NewVScroll(apptsBox)),
		container.NewTabItem("Patients", container.NewVScroll(patientsBox)),
		container.NewTabItem("Logs", container.NewVScroll(logsBox)),
	)

	header := container.NewBorder(nil, nil,
		widget.NewLabelWithStyle("Clinic Admin", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(refreshBtn, logoutBtn),
		searchEntry,
	)

	reload()
	return container.NewBorder(container.NewPadded(header), nil, nil, nil, tabs)
}

func renderAppointments(box *fyne.Container, appts []clinic.Appointment) {
	box.Objects = nil
	for _, a := range appts {
		row := widget.NewLabel(fmt.Sprintf("#%d  patient %d  %s  %s", a.ID, a.PatientID, a.AppointmentDate, a.StartTime))
		statusBtn := widget.NewButton(string(a.Status), nil)
		statusBtn.OnTapped = func() {
			statusBtn.Disable()
			go func() {
				next, err := dash.CycleStatus(context.Background(), a.ID)
				fyne.Do(func() {
					statusBtn.Enable()
					if err != nil {
						return // cache untouched, pill keeps its value
					}
					statusBtn.SetText(string(next))
				})
			}()
		}
		box.Add(container.NewBorder(nil, nil, nil, statusBtn, row))
	}
	box.Refresh()
}

func renderPatients(box *fyne.Container, patients []clinic.Patient) {
	box.Objects = nil
	for _, p := range patients {
		insured := "No"
		if p.HasInsurance {
			insured = "Yes"
		}
		box.Add(widget.NewLabel(fmt.Sprintf("#%d  %s  %s  %s  insured: %s",
			p.ID, p.FullName, p.Email, p.PhoneNumber, insured)))
	}
	box.Refresh()
}

func renderLogs(box *fyne.Container, logs []clinic.AgentLog) {
	box.Objects = nil
	for _, l := range logs {
		box.Add(widget.NewLabel(fmt.Sprintf("%s  %s  %s  %s",
			l.CreatedAt, l.AgentAction, l.LogContext, l.SystemDecision)))
	}
	box.Refresh()
}
