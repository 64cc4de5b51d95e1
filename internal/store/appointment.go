package store

import (
	"context"
	"encoding/json"

	"medicare-api/internal/kv"
	"medicare-api/internal/model"
)

// LoadAppointments returns the full collection and its version token.
// A slot that has never been written reads as an empty collection.
func (s *Store) LoadAppointments(ctx context.Context) ([]model.Appointment, int64, error) {
	data, version, err := s.kv.Get(ctx, appointmentsKey)
	if err != nil {
		return nil, 0, err
	}
	if data == nil {
		return []model.Appointment{}, version, nil
	}
	var all []model.Appointment
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, 0, &kv.ReadError{Key: appointmentsKey, Err: err}
	}
	return all, version, nil
}

// SaveAppointments overwrites the whole collection. It fails with
// kv.ErrVersionMismatch when the slot changed since the matching Load.
func (s *Store) SaveAppointments(ctx context.Context, all []model.Appointment, version int64) error {
	data, err := json.Marshal(all)
	if err != nil {
		return &kv.WriteError{Key: appointmentsKey, Err: err}
	}
	return s.kv.Put(ctx, appointmentsKey, data, version)
}
