package service

import (
	"context"

	"project-planner-api/internal/docstore"
	"project-planner-api/internal/domain"
)

// DocumentStore is the part of *docstore.Store the services depend on
type DocumentStore interface {
	List(ctx context.Context) ([]domain.ProjectSummary, error)
	Get(ctx context.Context, id string) (*domain.Project, error)
	Mutate(ctx context.Context, id string, fn docstore.MutateFunc) error
	Update(ctx context.Context, id string, apply func(*domain.Project) error) (*domain.Project, error)
	ReplaceAll(ctx context.Context, projects []*domain.Project) error
}

// ChangeNotifier tells connected peers that state changed
type ChangeNotifier interface {
	NotifyChange(ctx context.Context)
}

type nopNotifier struct{}

func (nopNotifier) NotifyChange(context.Context) {}

func orNop(n ChangeNotifier) ChangeNotifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}
