package handler

import (
	"context"

	"linkbot/internal/model"

	"github.com/stretchr/testify/mock"
)

// MockPromoService is a mock implementation of PromoService.
type MockPromoService struct {
	mock.Mock
}

func (m *MockPromoService) RequestCode(ctx context.Context, requesterID string) (model.Outcome, error) {
	args := m.Called(ctx, requesterID)
	return args.Get(0).(model.Outcome), args.Error(1)
}

func (m *MockPromoService) Snapshot(ctx context.Context) (*model.PromoStatus, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PromoStatus), args.Error(1)
}

func (m *MockPromoService) UpdateSettings(ctx context.Context, settings model.PromoSettings) (*model.PromoStatus, error) {
	args := m.Called(ctx, settings)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PromoStatus), args.Error(1)
}

// MockLinkService is a mock implementation of LinkService.
type MockLinkService struct {
	mock.Mock
}

func (m *MockLinkService) List(ctx context.Context) (*model.Document, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockLinkService) Add(ctx context.Context, category model.Category, name, url string) (model.Link, error) {
	args := m.Called(ctx, category, name, url)
	return args.Get(0).(model.Link), args.Error(1)
}

func (m *MockLinkService) Delete(ctx context.Context, category model.Category, position int) (model.Link, error) {
	args := m.Called(ctx, category, position)
	return args.Get(0).(model.Link), args.Error(1)
}
