package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dealerhub-api/internal/application/apptest"
	"github.com/jhoicas/dealerhub-api/internal/application/dto"
	"github.com/jhoicas/dealerhub-api/internal/application/usecase"
	"github.com/jhoicas/dealerhub-api/internal/domain"
	"github.com/jhoicas/dealerhub-api/internal/domain/entity"
)

func TestCategory_CreateDerivaSlug(t *testing.T) {
	ctx := context.Background()
	s := apptest.NewStore()
	uc := usecase.NewCategoryUseCase(s.Categories())

	c, err := uc.Create(ctx, dto.CreateCategoryRequest{Name: "Cascos Eléctricos"})
	require.NoError(t, err)
	assert.Equal(t, "cascos-electricos", c.Slug)
	assert.True(t, c.IsActive)

	_, err = uc.Create(ctx, dto.CreateCategoryRequest{Name: "Otra", Slug: "Cascos eléctricos"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, dto.CreateCategoryRequest{Name: "Hija", ParentID: "00000000-0000-0000-0000-000000000000"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "padre inexistente")
}

func TestCategory_UpdateRechazaCiclos(t *testing.T) {
	ctx := context.Background()
	s := apptest.NewStore()
	root := s.SeedCategory("", "Repuestos", "repuestos")
	child := s.SeedCategory(root.ID, "Frenos", "frenos")
	grand := s.SeedCategory(child.ID, "Pastillas", "pastillas")
	uc := usecase.NewCategoryUseCase(s.Categories())

	_, err := uc.Update(ctx, root.ID, dto.UpdateCategoryRequest{ParentID: &grand.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "descendiente como padre")
	_, err = uc.Update(ctx, root.ID, dto.UpdateCategoryRequest{ParentID: &root.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "ella misma como padre")

	toRoot := ""
	out, err := uc.Update(ctx, grand.ID, dto.UpdateCategoryRequest{ParentID: &toRoot})
	require.NoError(t, err)
	assert.Empty(t, out.ParentID)
}

func TestCategory_DeleteConHijasOProductos(t *testing.T) {
	ctx := context.Background()
	s := apptest.NewStore()
	root := s.SeedCategory("", "Repuestos", "repuestos")
	child := s.SeedCategory(root.ID, "Frenos", "frenos")
	d := s.SeedDealer("d", entity.DealerStatusActive, apptest.Dec("0"))
	p := s.SeedProduct(d.ID, "A", apptest.Dec("1"), 0)
	p.CategoryID = child.ID
	require.NoError(t, s.Products().Update(ctx, p))
	uc := usecase.NewCategoryUseCase(s.Categories())

	assert.ErrorIs(t, uc.Delete(ctx, root.ID), domain.ErrConflict)
	assert.ErrorIs(t, uc.Delete(ctx, child.ID), domain.ErrConflict)

	p.CategoryID = ""
	require.NoError(t, s.Products().Update(ctx, p))
	require.NoError(t, uc.Delete(ctx, child.ID))
	assert.ErrorIs(t, uc.Delete(ctx, child.ID), domain.ErrNotFound)
}

func TestBuildTree_OrdenYRamasHuerfanas(t *testing.T) {
	list := []*entity.Category{
		{ID: "r1", Name: "Zeta", SortOrder: 0},
		{ID: "r2", Name: "Alfa", SortOrder: 0},
		{ID: "r3", Name: "Primero", SortOrder: -1},
		{ID: "c1", ParentID: "r2", Name: "hija"},
		{ID: "x", ParentID: "no-listado", Name: "huérfana"},
	}
	tree := usecase.BuildTree(list)
	require.Len(t, tree, 3)
	assert.Equal(t, []string{"r3", "r2", "r1"}, []string{tree[0].ID, tree[1].ID, tree[2].ID})
	require.Len(t, tree[1].Children, 1)
	assert.Equal(t, "c1", tree[1].Children[0].ID)
	assert.NotNil(t, tree[0].Children, "hojas con lista vacía, no null")
}
