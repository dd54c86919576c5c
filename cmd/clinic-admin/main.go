package main

import (
	"log"
	"net/http"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
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

	api    *gateway.Client
	tokens *session.TokenStore
	dash   *clinic.Dashboard

	// onLoginView guards against redirect loops: a 401 while the login
	// screen is already up must not re-navigate. Only touched on the fyne
	// goroutine.
	onLoginView bool
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Panic("Could not load configuration: " + err.Error())
	}
	logger := cfg.NewLogger()

	st, err := store.NewFileStore(cfg.DataDir)
	if err != nil {
		log.Panic("Could not open session storage: " + err.Error())
	}

	tokens = session.NewTokenStore(st)
	api = gateway.New(cfg.APIBaseURL, tokens)
	api.HTTP = &http.Client{Timeout: cfg.HTTPTimeout}
	api.Limiter = rate.NewLimiter(rate.Limit(cfg.RateRPS), cfg.RateBurst)
	api.Logger = logger
	dash = clinic.NewDashboard(api)

	mainApp = app.New()
	window = mainApp.NewWindow("Clinic Admin")
	window.Resize(fyne.NewSize(1000, 720))

	// The gateway already cleared the credential; we only decide where to
	// navigate.
	api.OnUnauthorized = func() {
		fyne.Do(func() {
			if !onLoginView {
				showLogin()
			}
		})
	}

	if _, ok := tokens.Get(); ok {
		showDashboard()
	} else {
		showLogin()
	}

	window.ShowAndRun()
}

func showLogin() {
	onLoginView = true
	window.SetContent(MakeLoginScreen(func() {
		showDashboard()
	}))
}

func showDashboard() {
	onLoginView = false
	window.SetContent(MakeDashboardScreen())
}
