package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/dealerhub-api/internal/application/dto"
	"github.com/jhoicas/dealerhub-api/internal/domain"
	"github.com/jhoicas/dealerhub-api/internal/domain/entity"
	"github.com/jhoicas/dealerhub-api/internal/domain/repository"
	"github.com/jhoicas/dealerhub-api/pkg/slug"
)

// CategoryUseCase taxonomía del catálogo (global al marketplace).
type CategoryUseCase struct {
	repo repository.CategoryRepository
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{repo: repo}
}

// Create crea una categoría. El slug se deriva del nombre si no se envía.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	s := in.Slug
	if s == "" {
		s = name
	}
	s = slug.Make(s)
	if name == "" || s == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.ParentID != "" {
		parent, err := uc.repo.GetByID(ctx, in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, fmt.Errorf("%w: categoría padre inexistente", domain.ErrInvalidInput)
		}
	}
	existing, err := uc.repo.GetBySlug(ctx, s)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	c := &entity.Category{
		ID:          uuid.New().String(),
		ParentID:    in.ParentID,
		Name:        name,
		Slug:        s,
		Description: in.Description,
		SortOrder:   in.SortOrder,
		IsActive:    in.IsActive == nil || *in.IsActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return toCategoryResponse(c), nil
}

// Get categoría por ID.
func (uc *CategoryUseCase) Get(ctx context.Context, id string) (*dto.CategoryResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return toCategoryResponse(c), nil
}

// Update aplica el parche. Rechaza mover una categoría bajo sí misma o bajo un descendiente.
func (uc *CategoryUseCase) Update(ctx context.Context, id string, in dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
		if c.Name == "" {
			return nil, domain.ErrInvalidInput
		}
	}
	if in.Slug != nil {
		s := slug.Make(*in.Slug)
		if s == "" {
			return nil, domain.ErrInvalidInput
		}
		if s != c.Slug {
			existing, err := uc.repo.GetBySlug(ctx, s)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, domain.ErrDuplicate
			}
			c.Slug = s
		}
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.SortOrder != nil {
		c.SortOrder = *in.SortOrder
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	if in.ParentID != nil && *in.ParentID != c.ParentID {
		if *in.ParentID != "" {
			all, err := uc.repo.List(ctx, false)
			if err != nil {
				return nil, err
			}
			if err := checkNoCycle(all, c.ID, *in.ParentID); err != nil {
				return nil, err
			}
		}
		c.ParentID = *in.ParentID
	}
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return toCategoryResponse(c), nil
}

// checkNoCycle verifica que newParent exista y que id no sea ancestro de newParent.
func checkNoCycle(all []*entity.Category, id, newParent string) error {
	parentOf := make(map[string]string, len(all))
	for _, c := range all {
		parentOf[c.ID] = c.ParentID
	}
	if _, ok := parentOf[newParent]; !ok {
		return fmt.Errorf("%w: categoría padre inexistente", domain.ErrInvalidInput)
	}
	for cur, steps := newParent, 0; cur != ""; cur, steps = parentOf[cur], steps+1 {
		if cur == id || steps > len(all) {
			return fmt.Errorf("%w: la categoría no puede ser su propio ancestro", domain.ErrInvalidInput)
		}
	}
	return nil
}

// Delete elimina la categoría si no tiene hijas ni productos.
func (uc *CategoryUseCase) Delete(ctx context.Context, id string) error {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrNotFound
	}
	children, err := uc.repo.CountChildren(ctx, id)
	if err != nil {
		return err
	}
	if children > 0 {
		return fmt.Errorf("%w: la categoría tiene subcategorías", domain.ErrConflict)
	}
	products, err := uc.repo.CountProducts(ctx, id)
	if err != nil {
		return err
	}
	if products > 0 {
		return fmt.Errorf("%w: la categoría tiene productos", domain.ErrConflict)
	}
	return uc.repo.Delete(ctx, id)
}

// List lista plana ordenada por sort_order, name.
func (uc *CategoryUseCase) List(ctx context.Context, onlyActive bool) ([]dto.CategoryResponse, error) {
	list, err := uc.repo.List(ctx, onlyActive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toCategoryResponse(c))
	}
	return out, nil
}

// Tree árbol de categorías; los hermanos se ordenan por sort_order y luego nombre.
// Con onlyActive, una rama inactiva oculta también a sus descendientes.
func (uc *CategoryUseCase) Tree(ctx context.Context, onlyActive bool) ([]dto.CategoryNode, error) {
	list, err := uc.repo.List(ctx, onlyActive)
	if err != nil {
		return nil, err
	}
	return BuildTree(list), nil
}

// BuildTree arma el árbol a partir de la lista plana. Nodos cuyo padre no está en la lista se omiten.
func BuildTree(list []*entity.Category) []dto.CategoryNode {
	children := make(map[string][]*entity.Category)
	for _, c := range list {
		children[c.ParentID] = append(children[c.ParentID], c)
	}
	for _, cs := range children {
		sort.SliceStable(cs, func(i, j int) bool {
			if cs[i].SortOrder != cs[j].SortOrder {
				return cs[i].SortOrder < cs[j].SortOrder
			}
			return strings.ToLower(cs[i].Name) < strings.ToLower(cs[j].Name)
		})
	}
	var build func(parentID string) []dto.CategoryNode
	build = func(parentID string) []dto.CategoryNode {
		nodes := make([]dto.CategoryNode, 0, len(children[parentID]))
		for _, c := range children[parentID] {
			nodes = append(nodes, dto.CategoryNode{CategoryResponse: *toCategoryResponse(c), Children: build(c.ID)})
		}
		return nodes
	}
	return build("")
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:          c.ID,
		ParentID:    c.ParentID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		SortOrder:   c.SortOrder,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
