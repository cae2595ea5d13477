package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"project-planner-api/internal/domain"
	"project-planner-api/internal/dto"
	"project-planner-api/internal/response"
)

// PageService defines the interface for wiki page business logic
type PageService interface {
	ListPages(ctx context.Context, projectID string) ([]domain.Page, error)
	CreatePage(ctx context.Context, projectID string, req *dto.CreatePageRequest) (*domain.Page, error)
	UpdatePage(ctx context.Context, projectID, pageID string, req *dto.UpdatePageRequest) (*domain.Page, error)
	DeletePage(ctx context.Context, projectID, pageID string) error
}

type pageServiceImpl struct {
	store    DocumentStore
	notifier ChangeNotifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewPageService creates a new instance of PageService
func NewPageService(store DocumentStore, notifier ChangeNotifier, logger *zap.Logger) PageService {
	return &pageServiceImpl{
		store:    store,
		notifier: orNop(notifier),
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *pageServiceImpl) ListPages(ctx context.Context, projectID string) ([]domain.Page, error) {
	project, err := s.store.Get(ctx, projectID)
	if err != nil {
		return nil, toAppError(err, "Project not found")
	}
	return project.Pages, nil
}

func (s *pageServiceImpl) CreatePage(ctx context.Context, projectID string, req *dto.CreatePageRequest) (*domain.Page, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, response.NewValidationError("title: title is required", "")
	}

	now := s.now()
	page := domain.Page{
		ID:        uuid.New().String(),
		Title:     title,
		Content:   req.Content,
		ParentID:  req.ParentID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := s.store.Update(ctx, projectID, func(p *domain.Project) error {
		if page.ParentID != nil && p.FindPage(*page.ParentID) < 0 {
			return domain.NewValidationError("parentId", "parent page %q not found", *page.ParentID)
		}
		p.Pages = append(p.Pages, page)
		return nil
	})
	if err != nil {
		return nil, toAppError(err, "Project not found")
	}

	s.notifier.NotifyChange(ctx)
	return &page, nil
}

func (s *pageServiceImpl) UpdatePage(ctx context.Context, projectID, pageID string, req *dto.UpdatePageRequest) (*domain.Page, error) {
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, response.NewValidationError("title: title must not be empty", "")
	}

	var updated domain.Page
	_, err := s.store.Update(ctx, projectID, func(p *domain.Project) error {
		idx := p.FindPage(pageID)
		if idx < 0 {
			return notFound("Page not found")
		}
		if req.ParentID.Set && req.ParentID.Valid {
			if err := checkParent(p, pageID, req.ParentID.Value); err != nil {
				return err
			}
		}

		page := &p.Pages[idx]
		if req.Title != nil {
			page.Title = strings.TrimSpace(*req.Title)
		}
		if req.Content != nil {
			page.Content = *req.Content
		}
		if req.ParentID.Set {
			page.ParentID = req.ParentID.Ptr()
		}
		page.UpdatedAt = s.now()
		updated = *page
		return nil
	})
	if err != nil {
		return nil, toAppError(err, "Project not found")
	}

	s.notifier.NotifyChange(ctx)
	return &updated, nil
}

// DeletePage removes a page and hands its children to its parent
func (s *pageServiceImpl) DeletePage(ctx context.Context, projectID, pageID string) error {
	_, err := s.store.Update(ctx, projectID, func(p *domain.Project) error {
		idx := p.FindPage(pageID)
		if idx < 0 {
			return notFound("Page not found")
		}
		parent := p.Pages[idx].ParentID
		p.Pages = append(p.Pages[:idx], p.Pages[idx+1:]...)

		for i := range p.Pages {
			if pid := p.Pages[i].ParentID; pid != nil && *pid == pageID {
				p.Pages[i].ParentID = parent
			}
		}
		return nil
	})
	if err != nil {
		return toAppError(err, "Project not found")
	}

	s.notifier.NotifyChange(ctx)
	return nil
}

// checkParent rejects a missing parent and any parent that would close a cycle
func checkParent(p *domain.Project, pageID, parentID string) error {
	visited := map[string]bool{pageID: true}
	for cur := parentID; ; {
		if visited[cur] {
			return domain.NewValidationError("parentId", "page %q cannot be nested under itself", pageID)
		}
		visited[cur] = true

		idx := p.FindPage(cur)
		if idx < 0 {
			return domain.NewValidationError("parentId", "parent page %q not found", cur)
		}
		next := p.Pages[idx].ParentID
		if next == nil {
			return nil
		}
		cur = *next
	}
}
