package exercise

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("exercise not found")

type ListOpts struct {
	Q      string
	Limit  int
	Offset int
}

type Store interface {
	PutExercise(ctx context.Context, e Exercise) error
	GetExercise(ctx context.Context, id string) (Exercise, error)
	ListExercises(ctx context.Context, opts ListOpts) ([]Summary, error)
	DeleteExercise(ctx context.Context, id string) error
}
