package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-planner-api/internal/domain"
	"project-planner-api/internal/dto"
	"project-planner-api/internal/response"
)

func pageByID(pages []domain.Page, id string) *domain.Page {
	for i := range pages {
		if pages[i].ID == id {
			return &pages[i]
		}
	}
	return nil
}

func TestPageService_Tree(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.createProject(t, "Wiki")

	root, err := env.pages.CreatePage(ctx, p.ID, &dto.CreatePageRequest{Title: "Root", Content: "# home"})
	require.NoError(t, err)
	mid, err := env.pages.CreatePage(ctx, p.ID, &dto.CreatePageRequest{Title: "Mid", ParentID: &root.ID})
	require.NoError(t, err)
	leaf, err := env.pages.CreatePage(ctx, p.ID, &dto.CreatePageRequest{Title: "Leaf", ParentID: &mid.ID})
	require.NoError(t, err)

	t.Run("순환 참조 거부", func(t *testing.T) {
		_, err := env.pages.UpdatePage(ctx, p.ID, root.ID, &dto.UpdatePageRequest{ParentID: dto.NewNullable(leaf.ID)})
		requireAppError(t, err, response.ErrCodeValidation)

		_, err = env.pages.UpdatePage(ctx, p.ID, root.ID, &dto.UpdatePageRequest{ParentID: dto.NewNullable(root.ID)})
		requireAppError(t, err, response.ErrCodeValidation)
	})

	t.Run("존재하지 않는 부모 거부", func(t *testing.T) {
		_, err := env.pages.CreatePage(ctx, p.ID, &dto.CreatePageRequest{Title: "Orphan", ParentID: strPtr("nope")})
		requireAppError(t, err, response.ErrCodeValidation)
	})

	t.Run("페이지 삭제 시 자식은 상위로 이동", func(t *testing.T) {
		require.NoError(t, env.pages.DeletePage(ctx, p.ID, mid.ID))

		pages, err := env.pages.ListPages(ctx, p.ID)
		require.NoError(t, err)
		require.Len(t, pages, 2)
		lifted := pageByID(pages, leaf.ID)
		require.NotNil(t, lifted)
		require.NotNil(t, lifted.ParentID)
		assert.Equal(t, root.ID, *lifted.ParentID)
	})

	t.Run("null 부모는 최상위로 이동", func(t *testing.T) {
		updated, err := env.pages.UpdatePage(ctx, p.ID, leaf.ID, &dto.UpdatePageRequest{
			Title:    strPtr("Leaf v2"),
			ParentID: dto.Null[string](),
		})
		require.NoError(t, err)
		assert.Nil(t, updated.ParentID)
		assert.Equal(t, "Leaf v2", updated.Title)
		assert.False(t, updated.UpdatedAt.Before(leaf.UpdatedAt))
	})

	t.Run("존재하지 않는 페이지", func(t *testing.T) {
		err := env.pages.DeletePage(ctx, p.ID, "missing")
		requireAppError(t, err, response.ErrCodeNotFound)
	})
}
