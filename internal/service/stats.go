package service

import (
	"context"

	"medicare-api/internal/model"
)

// Stats are the admin dashboard counters.
type Stats struct {
	TotalAppointments     int `json:"totalAppointments"`
	PendingAppointments   int `json:"pendingAppointments"`
	ConfirmedAppointments int `json:"confirmedAppointments"`
	CancelledAppointments int `json:"cancelledAppointments"`
	TotalUsers            int `json:"totalUsers"`
	TotalDoctors          int `json:"totalDoctors"`
	TotalPatients         int `json:"totalPatients"`
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	appointments, _, err := s.store.LoadAppointments(ctx)
	if err != nil {
		return nil, err
	}
	users, _, err := s.store.LoadUsers(ctx)
	if err != nil {
		return nil, err
	}

	st := &Stats{
		TotalAppointments: len(appointments),
		TotalUsers:        len(users),
	}
	for _, a := range appointments {
		switch a.Status {
		case model.StatusPending:
			st.PendingAppointments++
		case model.StatusConfirmed:
			st.ConfirmedAppointments++
		case model.StatusCancelled:
			st.CancelledAppointments++
		}
	}
	for _, u := range users {
		switch u.Role {
		case model.RoleDoctor:
			st.TotalDoctors++
		case model.RolePatient:
			st.TotalPatients++
		}
	}
	return st, nil
}
