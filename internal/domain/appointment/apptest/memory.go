// Package apptest provides an in-memory appointment.Repository for tests.
package apptest

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	domain "github.com/ereshiii/pet-connect/internal/domain/appointment"
	"github.com/ereshiii/pet-connect/internal/models"
)

type Repo struct {
	mu           sync.Mutex
	lock         sync.Mutex
	clinics      map[uint]models.Clinic
	hours        map[uint]map[string]models.ClinicOperatingHour
	appointments map[uint]models.Appointment
	nextID       uint

	// Fail forces the named method to return an error.
	Fail map[string]error
	// LockCalls counts WithClinicLock invocations per clinic.
	LockCalls map[uint]int
	// AfterGetAppointment runs after every GetAppointment, outside the store
	// mutex, to interleave writes with a caller's read.
	AfterGetAppointment func(id uint)
}

func New() *Repo {
	return &Repo{
		clinics:      map[uint]models.Clinic{},
		hours:        map[uint]map[string]models.ClinicOperatingHour{},
		appointments: map[uint]models.Appointment{},
		Fail:         map[string]error{},
		LockCalls:    map[uint]int{},
	}
}

// ---------------------------------------------------------------
// Seeding
// ---------------------------------------------------------------

func (r *Repo) AddClinic(c models.Clinic) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clinics[c.ID] = c
}

// SetHours stores an open day. Empty break values mean no break.
func (r *Repo) SetHours(clinicID uint, day, open, close, breakStart, breakEnd string) {
	rec := models.ClinicOperatingHour{
		ClinicID:  clinicID,
		DayOfWeek: day,
		OpenTime:  open,
		CloseTime: close,
	}
	if breakStart != "" {
		rec.BreakStart = &breakStart
		rec.BreakEnd = &breakEnd
	}
	r.putHours(rec)
}

func (r *Repo) SetClosed(clinicID uint, day string) {
	r.putHours(models.ClinicOperatingHour{ClinicID: clinicID, DayOfWeek: day, IsClosed: true})
}

// SetWeek opens every weekday with the same hours.
func (r *Repo) SetWeek(clinicID uint, open, close, breakStart, breakEnd string) {
	for _, d := range domain.Weekdays {
		r.SetHours(clinicID, d, open, close, breakStart, breakEnd)
	}
}

func (r *Repo) putHours(rec models.ClinicOperatingHour) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hours[rec.ClinicID] == nil {
		r.hours[rec.ClinicID] = map[string]models.ClinicOperatingHour{}
	}
	r.hours[rec.ClinicID][rec.DayOfWeek] = rec
}

// Add stores an appointment as-is and returns its ID.
func (r *Repo) Add(ap models.Appointment) uint {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ap.ID == 0 {
		r.nextID++
		ap.ID = r.nextID
	} else if ap.ID > r.nextID {
		r.nextID = ap.ID
	}
	if ap.DurationMinutes == 0 {
		ap.DurationMinutes = domain.DefaultDurationMinutes
	}
	ap.EndsAt = ap.End()
	r.appointments[ap.ID] = ap
	return ap.ID
}

func (r *Repo) Get(id uint) models.Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.appointments[id]
}

func (r *Repo) All() []models.Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted()
}

func (r *Repo) sorted() []models.Appointment {
	out := make([]models.Appointment, 0, len(r.appointments))
	for _, ap := range r.appointments {
		out = append(out, ap)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *Repo) fail(method string) error {
	return r.Fail[method]
}

// ---------------------------------------------------------------
// domain.Repository
// ---------------------------------------------------------------

func (r *Repo) GetClinicByID(ctx context.Context, id uint) (*models.Clinic, error) {
	if err := r.fail("GetClinicByID"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clinics[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (r *Repo) ListClinics(ctx context.Context) ([]models.Clinic, error) {
	if err := r.fail("ListClinics"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Clinic, 0, len(r.clinics))
	for _, c := range r.clinics {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *Repo) GetOperatingHour(ctx context.Context, clinicID uint, day string) (*models.ClinicOperatingHour, error) {
	if err := r.fail("GetOperatingHour"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.hours[clinicID][day]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (r *Repo) ListOperatingHours(ctx context.Context, clinicID uint) ([]models.ClinicOperatingHour, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ClinicOperatingHour
	for _, d := range domain.Weekdays {
		if rec, ok := r.hours[clinicID][d]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *Repo) ReplaceOperatingHours(ctx context.Context, clinicID uint, hours []models.ClinicOperatingHour) error {
	if err := r.fail("ReplaceOperatingHours"); err != nil {
		return err
	}
	r.mu.Lock()
	r.hours[clinicID] = map[string]models.ClinicOperatingHour{}
	r.mu.Unlock()
	for _, h := range hours {
		h.ClinicID = clinicID
		r.putHours(h)
	}
	return nil
}

func (r *Repo) CreateAppointment(ctx context.Context, ap *models.Appointment) error {
	if err := r.fail("CreateAppointment"); err != nil {
		return err
	}
	ap.ID = r.Add(*ap)
	ap.EndsAt = ap.End()
	return nil
}

func (r *Repo) GetAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	r.mu.Lock()
	ap, ok := r.appointments[id]
	r.mu.Unlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	if r.AfterGetAppointment != nil {
		r.AfterGetAppointment(id)
	}
	return &ap, nil
}

func (r *Repo) UpdateAppointmentIf(ctx context.Context, ap *models.Appointment, expected domain.Status) (bool, error) {
	if err := r.fail("UpdateAppointment"); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.appointments[ap.ID]
	if !ok || cur.Status != string(expected) {
		return false, nil
	}
	ap.EndsAt = ap.End()
	r.appointments[ap.ID] = *ap
	return true, nil
}

func (r *Repo) MarkReminderSent(ctx context.Context, id uint, scheduledAt time.Time, kind domain.ReminderKind, at time.Time) (bool, error) {
	if err := r.fail("MarkReminderSent"); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	ap, ok := r.appointments[id]
	if !ok || !ap.ScheduledAt.Equal(scheduledAt) {
		return false, nil
	}
	if kind == domain.Reminder1Hour {
		ap.Reminder1SentAt = &at
	} else {
		ap.Reminder24SentAt = &at
	}
	r.appointments[id] = ap
	return true, nil
}

func (r *Repo) ListBlockingAppointments(ctx context.Context, clinicID uint, start, end time.Time) ([]models.Appointment, error) {
	if err := r.fail("ListBlockingAppointments"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	w := domain.Window{Start: start, End: end}
	var out []models.Appointment
	for _, ap := range r.sorted() {
		if ap.ClinicID != clinicID || !domain.Status(ap.Status).Blocks() {
			continue
		}
		if w.Overlaps(domain.WindowOf(&ap)) {
			out = append(out, ap)
		}
	}
	return out, nil
}

func (r *Repo) ListAppointmentsForPeriod(ctx context.Context, clinicID uint, start, end time.Time) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, ap := range r.sorted() {
		if ap.ClinicID == clinicID && !ap.ScheduledAt.Before(start) && ap.ScheduledAt.Before(end) {
			out = append(out, ap)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ScheduledAt.Before(out[j].ScheduledAt) })
	return out, nil
}

func (r *Repo) FindAppointments(ctx context.Context, q domain.Query) ([]models.Appointment, error) {
	if err := r.fail("FindAppointments"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Appointment
	for _, ap := range r.sorted() {
		if !matches(ap, q) {
			continue
		}
		out = append(out, ap)
		if q.Limit > 0 && len(out) >= q.Limit {
			break
		}
	}
	return out, nil
}

func matches(ap models.Appointment, q domain.Query) bool {
	if ap.ID <= q.AfterID {
		return false
	}
	if q.ClinicID != 0 && ap.ClinicID != q.ClinicID {
		return false
	}
	if len(q.Statuses) > 0 {
		found := false
		for _, s := range q.Statuses {
			if string(s) == ap.Status {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if q.ScheduledFrom != nil && ap.ScheduledAt.Before(*q.ScheduledFrom) {
		return false
	}
	if q.ScheduledUntil != nil && ap.ScheduledAt.After(*q.ScheduledUntil) {
		return false
	}
	if q.ScheduledBefore != nil && !ap.ScheduledAt.Before(*q.ScheduledBefore) {
		return false
	}
	switch q.ReminderUnsent {
	case domain.Reminder24Hours:
		return ap.Reminder24SentAt == nil
	case domain.Reminder1Hour:
		return ap.Reminder1SentAt == nil
	}
	return true
}

func (r *Repo) WithClinicLock(ctx context.Context, clinicID uint, fn func(tx domain.Repository) error) error {
	if err := r.fail("WithClinicLock"); err != nil {
		return err
	}
	r.lock.Lock()
	defer r.lock.Unlock()

	r.mu.Lock()
	r.LockCalls[clinicID]++
	r.mu.Unlock()

	return fn(r)
}

var _ domain.Repository = (*Repo)(nil)

// ErrBoom is a convenience failure for tests.
var ErrBoom = errors.New("boom")
