// clinic-view is the read-only healthcare front end: the three collections
// rendered without authentication or mutation.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"golang.org/x/time/rate"

	"github.com/rexlx/clinicdesk/internal/clinic"
	"github.com/rexlx/clinicdesk/internal/config"
	"github.com/rexlx/clinicdesk/internal/gateway"
	"github.com/rexlx/clinicdesk/internal/session"
	"github.com/rexlx/clinicdesk/internal/store"
)

var (
	mainApp fyne.App
	window  fyne.Window
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Panic("Could not load configuration: " + err.Error())
	}
	logger := cfg.NewLogger()

	// No login view here; the viewer holds no credential and sends none.
	api := gateway.New(cfg.APIBaseURL, session.NewTokenStore(store.NewMemStore()))
	api.HTTP = &http.Client{Timeout: cfg.HTTPTimeout}
	api.Limiter = rate.NewLimiter(rate.Limit(cfg.RateRPS), cfg.RateBurst)
	api.Logger = logger
	dash := clinic.NewDashboard(api)

	mainApp = app.New()
	window = mainApp.NewWindow("Clinic Overview")
	window.Resize(fyne.NewSize(900, 640))

	apptsBox := container.NewVBox()
	patientsBox := container.NewVBox()
	logsBox := container.NewVBox()

	render := func() {
		apptsBox.Objects = nil
		for _, a := range dash.Appointments() {
			apptsBox.Add(widget.NewLabel(fmt.Sprintf("#%d  patient %d  %s  %s  %s",
				a.ID, a.PatientID, a.AppointmentDate, a.StartTime, a.Status)))
		}
		apptsBox.Refresh()

		patientsBox.Objects = nil
		for _, p := range dash.Patients() {
			patientsBox.Add(widget.NewLabel(fmt.Sprintf("#%d  %s  %s", p.ID, p.FullName, p.Email)))
		}
		patientsBox.Refresh()

		logsBox.Objects = nil
		for _, l := range dash.Logs() {
			logsBox.Add(widget.NewLabel(fmt.Sprintf("%s  %s  %s", l.CreatedAt, l.AgentAction, l.SystemDecision)))
		}
		logsBox.Refresh()
	}

	reload := func() {
		go func() {
			if err := dash.Load(context.Background()); err != nil {
				logger.Warn("load failed", "error", err)
				return
			}
			fyne.Do(render)
		}()
	}

	refreshBtn := widget.NewButtonWithIcon("Refresh", theme.ViewRefreshIcon(), func() { reload() })

	tabs := container.NewAppTabs(
		container.NewTabItem("Appointments", container.NewVScroll(apptsBox)),
		container.NewTabItem("Patients", container.NewVScroll(patientsBox)),
		container.NewTabItem("Logs", container.NewVScroll(logsBox)),
	)

	header := container.NewBorder(nil, nil,
		widget.NewLabelWithStyle("Clinic Overview", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		refreshBtn,
	)

	reload()
	window.SetContent(container.NewBorder(container.NewPadded(header), nil, nil, nil, tabs))
	window.ShowAndRun()
}
