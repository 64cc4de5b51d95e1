package store

import (
	"context"
	"encoding/json"
	"errors"

	"medicare-api/internal/kv"
	"medicare-api/internal/model"
)

func (s *Store) LoadDoctors(ctx context.Context) ([]model.Doctor, int64, error) {
	data, version, err := s.kv.Get(ctx, doctorsKey)
	if err != nil {
		return nil, 0, err
	}
	if data == nil {
		return []model.Doctor{}, version, nil
	}
	var all []model.Doctor
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, 0, &kv.ReadError{Key: doctorsKey, Err: err}
	}
	return all, version, nil
}

func (s *Store) DoctorByID(ctx context.Context, id string) (*model.Doctor, error) {
	all, _, err := s.LoadDoctors(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, nil
}

// SeedDoctors writes the default directory the first time the slot is
// seen. An already-populated slot is left alone.
func (s *Store) SeedDoctors(ctx context.Context, defaults []model.Doctor) error {
	existing, version, err := s.LoadDoctors(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	data, err := json.Marshal(defaults)
	if err != nil {
		return &kv.WriteError{Key: doctorsKey, Err: err}
	}
	err = s.kv.Put(ctx, doctorsKey, data, version)
	if errors.Is(err, kv.ErrVersionMismatch) {
		// another instance seeded first
		return nil
	}
	return err
}
