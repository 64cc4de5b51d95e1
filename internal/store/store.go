// Package store maps the fixed storage keys to their collections.
// A collection is loaded and saved whole; the version returned by Load
// must be handed back to Save so stale writers are rejected.
package store

import "medicare-api/internal/kv"

const (
	appointmentsKey = "@MedicalApp:appointments"
	usersKey        = "@MedicalApp:users"
	doctorsKey      = "@MedicalApp:doctors"
)

type Store struct {
	kv kv.Store
}

func New(backend kv.Store) *Store {
	return &Store{kv: backend}
}
