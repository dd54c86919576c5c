package main

import (
	"log"
	"net/http"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"golang.org/x/time/rate"

	"github.com/rexlx/clinicdesk/internal/chat"
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
	// 1. Configuration and storage before any UI exists
	cfg, err := config.Load()
	if err != nil {
		log.Panic("Could not load configuration: " + err.Error())
	}
	logger := cfg.NewLogger()

	st, err := store.NewFileStore(cfg.DataDir)
	if err != nil {
		log.Panic("Could not open session storage: " + err.Error())
	}

	// 2. Gateway + conversation controller
	api := gateway.New(cfg.APIBaseURL, session.NewTokenStore(st))
	api.HTTP = &http.Client{Timeout: cfg.HTTPTimeout}
	api.Limiter = rate.NewLimiter(rate.Limit(cfg.RateRPS), cfg.RateBurst)
	api.Logger = logger

	conv := chat.NewConversation(api, session.NewIdentityStore(st), logger)

	// 3. UI
	mainApp = app.New()
	window = mainApp.NewWindow("Clinic Assistant")
	window.Resize(fyne.NewSize(480, 700))

	window.SetContent(MakeChatScreen(conv))
	window.ShowAndRun()
}
