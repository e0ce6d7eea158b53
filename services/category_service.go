package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/grocerly/pos-backend/models"
	"github.com/grocerly/pos-backend/repository"
)

var ErrCategoryInUse = errors.New("category still has products")

type CategoryService struct {
	categories repository.CategoryRepo
}

func NewCategoryService(categories repository.CategoryRepo) *CategoryService {
	return &CategoryService{categories: categories}
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.categories.FindAll(ctx)
}

func (s *CategoryService) Create(ctx context.Context, req models.CategoryRequest) (*models.Category, error) {
	category := &models.Category{Name: req.Name, Description: req.Description}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, id primitive.ObjectID, req models.CategoryRequest) error {
	return s.categories.Update(ctx, id, map[string]interface{}{
		"name":        req.Name,
		"description": req.Description,
	})
}

// Delete refuses to remove a category that live products still reference.
func (s *CategoryService) Delete(ctx context.Context, id primitive.ObjectID) error {
	inUse, err := s.categories.HasProducts(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return ErrCategoryInUse
	}
	return s.categories.Delete(ctx, id)
}
