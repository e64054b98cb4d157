package ynab

import (
	"context"

	"github.com/eshaffer321/ynab-go/internal/endpoint"
	"github.com/pkg/errors"
)

// categoryService implements the CategoryService interface
type categoryService struct {
	client *Client
}

type categoriesData struct {
	CategoryGroups  []CategoryGroupWithCategories `json:"category_groups" validate:"required,dive"`
	ServerKnowledge *Knowledge                    `json:"server_knowledge" validate:"required"`
}

type categoryData struct {
	Category        Category   `json:"category" validate:"required"`
	ServerKnowledge *Knowledge `json:"server_knowledge,omitempty"`
}

// List retrieves category groups with their categories
func (s *categoryService) List(ctx context.Context, budgetID string, opts ...ListOption) (*CategoryList, error) {
	query := &endpoint.Query{}
	collectListOptions(opts).apply(query)

	req, err := s.client.newRequest(endpoint.GetCategories, query, nil, budgetID)
	if err != nil {
		return nil, err
	}

	data, err := call[categoriesData](ctx, s.client, req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list categories")
	}

	return &CategoryList{
		CategoryGroups:  data.CategoryGroups,
		ServerKnowledge: *data.ServerKnowledge,
	}, nil
}

// Get retrieves a single category
func (s *categoryService) Get(ctx context.Context, budgetID, categoryID string) (*Category, error) {
	req, err := s.client.newRequest(endpoint.GetCategory, nil, nil, budgetID, categoryID)
	if err != nil {
		return nil, err
	}

	data, err := call[categoryData](ctx, s.client, req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get category")
	}

	return &data.Category, nil
}

// GetForMonth retrieves a category's figures for one month
func (s *categoryService) GetForMonth(ctx context.Context, budgetID, month, categoryID string) (*Category, error) {
	req, err := s.client.newRequest(endpoint.GetMonthCategory, nil, nil, budgetID, month, categoryID)
	if err != nil {
		return nil, err
	}

	data, err := call[categoryData](ctx, s.client, req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get category for month %s", month)
	}

	return &data.Category, nil
}

// UpdateForMonth sets a category's budgeted amount for one month
func (s *categoryService) UpdateForMonth(ctx context.Context, budgetID, month, categoryID string, params *SaveMonthCategory) (*CategoryUpdate, error) {
	if params == nil {
		return nil, &ValidationErrors{Errors: []*ValidationError{{Field: "category", Message: "is required"}}}
	}

	body := map[string]interface{}{
		"category": params,
	}

	req, err := s.client.newRequest(endpoint.UpdateMonthCategory, nil, body, budgetID, month, categoryID)
	if err != nil {
		return nil, err
	}

	data, err := call[categoryData](ctx, s.client, req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to update category for month %s", month)
	}

	update := &CategoryUpdate{Category: data.Category}
	if data.ServerKnowledge != nil {
		update.ServerKnowledge = *data.ServerKnowledge
	}
	return update, nil
}
