package service

import (
	"context"
	"errors"

	"medicare-api/internal/model"
)

// ErrDoctorNotFound is returned for lookups against an unknown doctor id.
var ErrDoctorNotFound = errors.New("doctor not found")

func (s *Service) GetDoctors(ctx context.Context) ([]model.Doctor, error) {
	all, _, err := s.store.LoadDoctors(ctx)
	return all, err
}

func (s *Service) GetDoctor(ctx context.Context, id string) (*model.Doctor, error) {
	d, err := s.store.DoctorByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrDoctorNotFound
	}
	return d, nil
}
