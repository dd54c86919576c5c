package clinic

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/rexlx/clinicdesk/internal/gateway"
)

// ErrUnknownAppointment is returned when a status change targets an id the
// cache has never seen.
var ErrUnknownAppointment = errors.New("appointment not in local cache")

// Dashboard is the local read/write cache behind the admin and read-only
// front ends. It fetches the three collections on load and applies status
// changes through the commit-on-success protocol: the cache is only touched
// after the backend has acknowledged the new value.
type Dashboard struct {
	mu  sync.RWMutex
	api *gateway.Client

	appointments []Appointment
	patients     []Patient
	logs         []AgentLog
}

func NewDashboard(api *gateway.Client) *Dashboard {
	return &Dashboard{api: api}
}

// Load fetches logs, appointments and patients and replaces the cache.
// Appointments and logs are held newest-first.
func (d *Dashboard) Load(ctx context.Context) error {
	var (
		logs         []AgentLog
		appointments []Appointment
		patients     []Patient
	)
	if err := d.api.Get(ctx, "/logs/", &logs); err != nil {
		return fmt.Errorf("fetch logs: %w", err)
	}
	if err := d.api.Get(ctx, "/appointments/", &appointments); err != nil {
		return fmt.Errorf("fetch appointments: %w", err)
	}
	if err := d.api.Get(ctx, "/patients/", &patients); err != nil {
		return fmt.Errorf("fetch patients: %w", err)
	}

	sort.Slice(appointments, func(i, j int) bool { return appointments[i].ID > appointments[j].ID })
	sort.Slice(logs, func(i, j int) bool { return logs[i].ID > logs[j].ID })

	d.mu.Lock()
	d.logs = logs
	d.appointments = appointments
	d.patients = patients
	d.mu.Unlock()
	return nil
}

func (d *Dashboard) Appointments() []Appointment {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Appointment, len(d.appointments))
	copy(out, d.appointments)
	return out
}

func (d *Dashboard) Patients() []Patient {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Patient, len(d.patients))
	copy(out, d.patients)
	return out
}

func (d *Dashboard) Logs() []AgentLog {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]AgentLog, len(d.logs))
	copy(out, d.logs)
	return out
}

// CycleStatus advances the appointment's status one step:
//  1. compute next from the cached value,
//  2. PATCH the backend with next,
//  3. on success replace only that appointment's status locally.
//
// On any failure the cache is exactly as it was before the call and the
// error is returned; no retry is attempted.
func (d *Dashboard) CycleStatus(ctx context.Context, id int) (Status, error) {
	d.mu.RLock()
	var current Status
	found := false
	for _, a := range d.appointments {
		if a.ID == id {
			current = a.Status
			found = true
			break
		}
	}
	d.mu.RUnlock()
	if !found {
		return "", ErrUnknownAppointment
	}

	next := NextStatus(current)
	query := url.Values{"new_status": {string(next)}}
	if err := d.api.Patch(ctx, fmt.Sprintf("/appointments/%d/status", id), query); err != nil {
		return "", fmt.Errorf("update appointment %d: %w", id, err)
	}

	d.mu.Lock()
	for i := range d.appointments {
		if d.appointments[i].ID == id {
			d.appointments[i].Status = next
			break
		}
	}
	d.mu.Unlock()
	return next, nil
}

// FilterAppointments keeps appointments whose id or date contains term,
// mirroring the dashboard search box. An empty term keeps everything.
func FilterAppointments(appointments []Appointment, term string) []Appointment {
	if term == "" {
		return appointments
	}
	var out []Appointment
	for _, a := range appointments {
		if strings.Contains(strconv.Itoa(a.ID), term) || strings.Contains(a.AppointmentDate, term) {
			out = append(out, a)
		}
	}
	return out
}

// FilterPatients keeps patients whose id or name contains term,
// case-insensitive on the name.
func FilterPatients(patients []Patient, term string) []Patient {
	if term == "" {
		return patients
	}
	lower := strings.ToLower(term)
	var out []Patient
	for _, p := range patients {
		if strings.Contains(strconv.Itoa(p.ID), term) || strings.Contains(strings.ToLower(p.FullName), lower) {
			out = append(out, p)
		}
	}
	return out
}
