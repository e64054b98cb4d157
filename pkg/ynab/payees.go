package ynab

import (
	"context"

	"github.com/eshaffer321/ynab-go/internal/endpoint"
	"github.com/pkg/errors"
)

// payeeService implements the PayeeService interface
type payeeService struct {
	client *Client
}

type payeesData struct {
	Payees          []Payee    `json:"payees" validate:"required,dive"`
	ServerKnowledge *Knowledge `json:"server_knowledge" validate:"required"`
}

type payeeData struct {
	Payee Payee `json:"payee" validate:"required"`
}

// List retrieves payees
func (s *payeeService) List(ctx context.Context, budgetID string, opts ...ListOption) (*PayeeList, error) {
	query := &endpoint.Query{}
	collectListOptions(opts).apply(query)

	req, err := s.client.newRequest(endpoint.GetPayees, query, nil, budgetID)
	if err != nil {
		return nil, err
	}

	data, err := call[payeesData](ctx, s.client, req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list payees")
	}

	return &PayeeList{
		Payees:          data.Payees,
		ServerKnowledge: *data.ServerKnowledge,
	}, nil
}

// Get retrieves a single payee
func (s *payeeService) Get(ctx context.Context, budgetID, payeeID string) (*Payee, error) {
	req, err := s.client.newRequest(endpoint.GetPayee, nil, nil, budgetID, payeeID)
	if err != nil {
		return nil, err
	}

	data, err := call[payeeData](ctx, s.client, req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get payee")
	}

	return &data.Payee, nil
}

// payeeLocationService implements the PayeeLocationService interface
type payeeLocationService struct {
	client *Client
}

type payeeLocationsData struct {
	PayeeLocations  []PayeeLocation `json:"payee_locations" validate:"required,dive"`
	ServerKnowledge *Knowledge      `json:"server_knowledge,omitempty"`
}

type payeeLocationData struct {
	PayeeLocation PayeeLocation `json:"payee_location" validate:"required"`
}

// List retrieves every payee location of a budget
func (s *payeeLocationService) List(ctx context.Context, budgetID string, opts ...ListOption) (*PayeeLocationList, error) {
	query := &endpoint.Query{}
	collectListOptions(opts).apply(query)

	req, err := s.client.newRequest(endpoint.GetPayeeLocations, query, nil, budgetID)
	if err != nil {
		return nil, err
	}

	data, err := call[payeeLocationsData](ctx, s.client, req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list payee locations")
	}

	return &PayeeLocationList{
		PayeeLocations:  data.PayeeLocations,
		ServerKnowledge: data.ServerKnowledge,
	}, nil
}

// Get retrieves a single payee location
func (s *payeeLocationService) Get(ctx context.Context, budgetID, payeeLocationID string) (*PayeeLocation, error) {
	req, err := s.client.newRequest(endpoint.GetPayeeLocation, nil, nil, budgetID, payeeLocationID)
	if err != nil {
		return nil, err
	}

	data, err := call[payeeLocationData](ctx, s.client, req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get payee location")
	}

	return &data.PayeeLocation, nil
}

// ListForPayee retrieves the locations of one payee
func (s *payeeLocationService) ListForPayee(ctx context.Context, budgetID, payeeID string) (*PayeeLocationList, error) {
	req, err := s.client.newRequest(endpoint.GetPayeeLocationsForPayee, nil, nil, budgetID, payeeID)
	if err != nil {
		return nil, err
	}

	data, err := call[payeeLocationsData](ctx, s.client, req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list payee locations for payee")
	}

	return &PayeeLocationList{
		PayeeLocations:  data.PayeeLocations,
		ServerKnowledge: data.ServerKnowledge,
	}, nil
}
