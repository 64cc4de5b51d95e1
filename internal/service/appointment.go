// Package service implements the appointment business rules: filtering,
// conflict detection, slot availability and the create/update/delete
// cycle. Every operation loads the full collection from the store,
// works in memory and writes the whole collection back.
package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"medicare-api/internal/dates"
	"medicare-api/internal/kv"
	"medicare-api/internal/model"
	"medicare-api/internal/store"
	"medicare-api/internal/validate"
)

// StandardSlots is the daily booking template: hourly, mornings and
// afternoons, no lunch block.
var StandardSlots = []string{
	"08:00", "09:00", "10:00", "11:00",
	"14:00", "15:00", "16:00", "17:00",
}

// saveRetries bounds how often a mutation re-runs after losing the
// version check to a concurrent writer.
const saveRetries = 3

type Service struct {
	store *store.Store
	log   *logrus.Logger
	now   func() time.Time
}

func New(st *store.Store, log *logrus.Logger) *Service {
	return &Service{store: st, log: log, now: time.Now}
}

// Filters narrow GetFiltered with AND semantics; a zero field imposes no
// constraint. DateFrom/DateTo are DD/MM/YYYY and inclusive.
type Filters struct {
	PatientID string
	DoctorID  string
	Status    model.Status
	DateFrom  string
	DateTo    string
}

type CreateInput struct {
	PatientID   string
	DoctorID    string
	DoctorName  string
	Specialty   string
	Date        string
	Time        string
	Description string
	Status      model.Status
}

func (s *Service) GetAll(ctx context.Context) ([]model.Appointment, error) {
	all, _, err := s.store.LoadAppointments(ctx)
	return all, err
}

func (s *Service) GetFiltered(ctx context.Context, f Filters) ([]model.Appointment, error) {
	var from, to time.Time
	if f.DateFrom != "" {
		d, err := dates.ParseDate(f.DateFrom)
		if err != nil {
			return nil, &ValidationError{Reason: "dateFrom must be DD/MM/YYYY"}
		}
		from = d
	}
	if f.DateTo != "" {
		d, err := dates.ParseDate(f.DateTo)
		if err != nil {
			return nil, &ValidationError{Reason: "dateTo must be DD/MM/YYYY"}
		}
		to = d
	}

	all, _, err := s.store.LoadAppointments(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.Appointment, 0, len(all))
	for _, a := range all {
		if f.PatientID != "" && a.PatientID != f.PatientID {
			continue
		}
		if f.DoctorID != "" && a.DoctorID != f.DoctorID {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if !from.IsZero() || !to.IsZero() {
			d, err := dates.ParseDate(a.Date)
			if err != nil {
				continue
			}
			if !from.IsZero() && d.Before(from) {
				continue
			}
			if !to.IsZero() && d.After(to) {
				continue
			}
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*model.Appointment, error) {
	all, _, err := s.store.LoadAppointments(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, ErrAppointmentNotFound
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*model.Appointment, error) {
	if !validate.Date(in.Date) {
		return nil, &ValidationError{Reason: "date must be a valid DD/MM/YYYY date"}
	}
	if !validate.Time(in.Time) {
		return nil, &ValidationError{Reason: "time must be HH:MM"}
	}
	if !validate.AppointmentDateTime(in.Date, in.Time, s.now()) {
		return nil, &ValidationError{Reason: "appointment must be in the future"}
	}
	status := in.Status
	if status == "" {
		status = model.StatusPending
	}
	if !status.Valid() {
		return nil, &ValidationError{Reason: "unknown status"}
	}

	var created *model.Appointment
	err := s.mutate(ctx, func(all []model.Appointment) ([]model.Appointment, error) {
		if occupied(all, in.DoctorID, in.Date, in.Time, "") {
			return nil, &ConflictError{DoctorID: in.DoctorID, Date: in.Date, Time: in.Time}
		}
		now := s.now()
		apt := model.Appointment{
			ID:          uuid.New().String(),
			PatientID:   in.PatientID,
			DoctorID:    in.DoctorID,
			DoctorName:  in.DoctorName,
			Specialty:   in.Specialty,
			Date:        in.Date,
			Time:        in.Time,
			Description: in.Description,
			Status:      status,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		created = &apt
		return append(all, apt), nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"appointmentId": created.ID,
		"doctorId":      created.DoctorID,
		"date":          created.Date,
		"time":          created.Time,
	}).Info("appointment created")
	return created, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status model.Status) (*model.Appointment, error) {
	if !status.Valid() {
		return nil, &ValidationError{Reason: "unknown status"}
	}

	var updated *model.Appointment
	err := s.mutate(ctx, func(all []model.Appointment) ([]model.Appointment, error) {
		for i := range all {
			if all[i].ID == id {
				all[i].Status = status
				all[i].UpdatedAt = s.now()
				updated = &all[i]
				return all, nil
			}
		}
		return nil, ErrAppointmentNotFound
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"appointmentId": id,
		"status":        status,
	}).Info("appointment status updated")
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.mutate(ctx, func(all []model.Appointment) ([]model.Appointment, error) {
		for i := range all {
			if all[i].ID == id {
				return append(all[:i], all[i+1:]...), nil
			}
		}
		return nil, ErrAppointmentNotFound
	})
	if err != nil {
		return err
	}
	s.log.WithField("appointmentId", id).Info("appointment deleted")
	return nil
}

// GetUpcoming returns the non-cancelled appointments dated within
// [today, today+7 days], ascending by date then time. An empty patientID
// covers all patients. The window is counted in local calendar days,
// matching how the stored dates parse.
func (s *Service) GetUpcoming(ctx context.Context, patientID string) ([]model.Appointment, error) {
	all, _, err := s.store.LoadAppointments(ctx)
	if err != nil {
		return nil, err
	}

	today := dates.DateOnly(s.now().In(time.Local))
	horizon := today.AddDate(0, 0, 7)

	out := make([]model.Appointment, 0)
	for _, a := range all {
		if a.Status == model.StatusCancelled {
			continue
		}
		if patientID != "" && a.PatientID != patientID {
			continue
		}
		d, err := dates.ParseDate(a.Date)
		if err != nil {
			continue
		}
		if d.Before(today) || d.After(horizon) {
			continue
		}
		out = append(out, a)
	}

	sort.Slice(out, func(i, j int) bool {
		di, _ := dates.ParseDate(out[i].Date)
		dj, _ := dates.ParseDate(out[j].Date)
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}

// IsSlotAvailable reports whether no non-cancelled appointment occupies
// (doctorID, date, time). excludeID ignores one record, for reschedules.
func (s *Service) IsSlotAvailable(ctx context.Context, doctorID, date, clock, excludeID string) (bool, error) {
	all, _, err := s.store.LoadAppointments(ctx)
	if err != nil {
		return false, err
	}
	return !occupied(all, doctorID, date, clock, excludeID), nil
}

// GetAvailableSlots intersects the daily template against the booked
// slots for one doctor and date.
func (s *Service) GetAvailableSlots(ctx context.Context, doctorID, date string) ([]string, error) {
	if !validate.Date(date) {
		return nil, &ValidationError{Reason: "date must be a valid DD/MM/YYYY date"}
	}
	all, _, err := s.store.LoadAppointments(ctx)
	if err != nil {
		return nil, err
	}

	free := make([]string, 0, len(StandardSlots))
	for _, slot := range StandardSlots {
		if !occupied(all, doctorID, date, slot, "") {
			free = append(free, slot)
		}
	}
	return free, nil
}

func occupied(all []model.Appointment, doctorID, date, clock, excludeID string) bool {
	for _, a := range all {
		if a.DoctorID == doctorID &&
			a.Date == date &&
			a.Time == clock &&
			a.Status != model.StatusCancelled &&
			a.ID != excludeID {
			return true
		}
	}
	return false
}

// mutate runs the load→apply→save cycle. Losing the version check means
// another writer replaced the collection after our load; reloading and
// re-applying keeps the conflict scan honest instead of last-write-wins.
func (s *Service) mutate(ctx context.Context, apply func([]model.Appointment) ([]model.Appointment, error)) error {
	var err error
	for i := 0; i < saveRetries; i++ {
		var all []model.Appointment
		var version int64
		all, version, err = s.store.LoadAppointments(ctx)
		if err != nil {
			return err
		}
		all, err = apply(all)
		if err != nil {
			return err
		}
		err = s.store.SaveAppointments(ctx, all, version)
		if !errors.Is(err, kv.ErrVersionMismatch) {
			return err
		}
		s.log.Debug("save lost version check, retrying")
	}
	return err
}
