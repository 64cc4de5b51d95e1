package store

import (
	"context"
	"encoding/json"

	"medicare-api/internal/kv"
	"medicare-api/internal/model"
)

func (s *Store) LoadUsers(ctx context.Context) ([]model.User, int64, error) {
	data, version, err := s.kv.Get(ctx, usersKey)
	if err != nil {
		return nil, 0, err
	}
	if data == nil {
		return []model.User{}, version, nil
	}
	var all []model.User
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, 0, &kv.ReadError{Key: usersKey, Err: err}
	}
	return all, version, nil
}

func (s *Store) SaveUsers(ctx context.Context, all []model.User, version int64) error {
	data, err := json.Marshal(all)
	if err != nil {
		return &kv.WriteError{Key: usersKey, Err: err}
	}
	return s.kv.Put(ctx, usersKey, data, version)
}

// UserByEmail scans the collection; the zero result is a miss.
func (s *Store) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	all, _, err := s.LoadUsers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].Email == email {
			return &all[i], nil
		}
	}
	return nil, nil
}
