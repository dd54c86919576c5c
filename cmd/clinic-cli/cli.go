// File: cmd/clinic-cli/cli.go
//
// clinic-cli is a small operator tool over the same gateway the GUI apps
// use: log in, list a collection, or cycle an appointment's status from a
// script.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/rexlx/clinicdesk/internal/clinic"
	"github.com/rexlx/clinicdesk/internal/config"
	"github.com/rexlx/clinicdesk/internal/gateway"
	"github.com/rexlx/clinicdesk/internal/session"
	"github.com/rexlx/clinicdesk/internal/store"
)

func main() {
	user := flag.String("user", "", "Admin username")
	pass := flag.String("pass", "", "Admin password")
	list := flag.String("list", "", "Collection to list (appointments/patients/logs)")
	cycle := flag.Int("cycle", 0, "Appointment ID whose status to advance")
	flag.Parse()

	if *user == "" || *pass == "" {
		log.Fatal("Usage: clinic-cli -user <name> -pass <password> [-list appointments|patients|logs] [-cycle <id>]")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// One-shot tool: the credential lives and dies with the process.
	api := gateway.New(cfg.APIBaseURL, session.NewTokenStore(store.NewMemStore()))
	api.HTTP = &http.Client{Timeout: cfg.HTTPTimeout}
	api.Limiter = rate.NewLimiter(rate.Limit(cfg.RateRPS), cfg.RateBurst)
	api.Logger = cfg.NewLogger()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// 1. Login
	fmt.Printf("Authenticating as %s...\n", *user)
	if err := api.Login(ctx, *user, *pass); err != nil {
		log.Fatalf("Login failed: %v", err)
	}
	fmt.Println("Authentication successful.")

	dash := clinic.NewDashboard(api)
	if err := dash.Load(ctx); err != nil {
		log.Fatalf("Load failed: %v", err)
	}

	// 2. Optional status cycle
	if *cycle != 0 {
		next, err := dash.CycleStatus(ctx, *cycle)
		if err != nil {
			log.Fatalf("Status update failed: %v", err)
		}
		fmt.Printf("[SUCCESS] Appointment #%d is now %s\n", *cycle, next)
	}

	// 3. Optional listing
	switch *list {
	case "":
	case "appointments":
		for _, a := range dash.Appointments() {
			fmt.Printf("#%d\tpatient %d\t%s %s\t%s\n", a.ID, a.PatientID, a.AppointmentDate, a.StartTime, a.Status)
		}
	case "patients":
		for _, p := range dash.Patients() {
			fmt.Printf("#%d\t%s\t%s\t%s\n", p.ID, p.FullName, p.Email, p.PhoneNumber)
		}
	case "logs":
		for _, l := range dash.Logs() {
			fmt.Printf("%s\t%s\t%s\t%s\n", l.CreatedAt, l.AgentAction, l.LogContext, l.SystemDecision)
		}
	default:
		log.Fatalf("Unknown collection %q", *list)
	}
}
