package service

import (
	"context"
	"errors"

	"medicare-api/internal/kv"
	"medicare-api/internal/model"
)

// ErrEmailTaken is returned when registering an address that already has
// an account.
var ErrEmailTaken = errors.New("email already registered")

// ErrUserNotFound mirrors ErrAppointmentNotFound for the users collection.
var ErrUserNotFound = errors.New("user not found")

func (s *Service) GetUsers(ctx context.Context) ([]model.User, error) {
	all, _, err := s.store.LoadUsers(ctx)
	return all, err
}

func (s *Service) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.store.UserByEmail(ctx, email)
}

func (s *Service) CreateUser(ctx context.Context, u model.User) error {
	err := s.mutateUsers(ctx, func(all []model.User) ([]model.User, error) {
		for _, existing := range all {
			if existing.Email == u.Email {
				return nil, ErrEmailTaken
			}
		}
		return append(all, u), nil
	})
	if err != nil {
		return err
	}
	s.log.WithField("userId", u.ID).Info("user registered")
	return nil
}

func (s *Service) DeleteUser(ctx context.Context, id string) error {
	err := s.mutateUsers(ctx, func(all []model.User) ([]model.User, error) {
		for i := range all {
			if all[i].ID == id {
				return append(all[:i], all[i+1:]...), nil
			}
		}
		return nil, ErrUserNotFound
	})
	if err != nil {
		return err
	}
	s.log.WithField("userId", id).Info("user deleted")
	return nil
}

func (s *Service) mutateUsers(ctx context.Context, apply func([]model.User) ([]model.User, error)) error {
	var err error
	for i := 0; i < saveRetries; i++ {
		var all []model.User
		var version int64
		all, version, err = s.store.LoadUsers(ctx)
		if err != nil {
			return err
		}
		all, err = apply(all)
		if err != nil {
			return err
		}
		err = s.store.SaveUsers(ctx, all, version)
		if !errors.Is(err, kv.ErrVersionMismatch) {
			return err
		}
	}
	return err
}
