package service

import (
	"context"
	"sync"

	"linkbot/internal/coupon"
	"linkbot/internal/model"
	"linkbot/internal/repository"

	"github.com/stretchr/testify/mock"
)

// MockDocumentRepository is a mock implementation of DocumentRepository.
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Init(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDocumentRepository) Load(ctx context.Context) (*model.Document, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentRepository) Save(ctx context.Context, doc *model.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) Update(ctx context.Context, fn repository.UpdateFunc) error {
	args := m.Called(ctx, fn)
	return args.Error(0)
}

func (m *MockDocumentRepository) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockGenerator is a mock implementation of coupon.Generator.
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(prefix string, taken coupon.CodeSet) (string, error) {
	args := m.Called(prefix, taken)
	return args.String(0), args.Error(1)
}

// memoryRepository is an in-memory DocumentRepository that counts writes.
type memoryRepository struct {
	mu     sync.Mutex
	doc    *model.Document
	writes int
}

func newMemoryRepository(promo model.PromoConfig) *memoryRepository {
	return &memoryRepository{doc: model.NewDefaultDocument(promo)}
}

func (r *memoryRepository) Init(ctx context.Context) error { return nil }

func (r *memoryRepository) Load(ctx context.Context) (*model.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.doc.Clone(), nil
}

func (r *memoryRepository) Save(ctx context.Context, doc *model.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.doc = doc.Clone()
	r.writes++
	return nil
}

func (r *memoryRepository) Update(ctx context.Context, fn repository.UpdateFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc := r.doc.Clone()
	changed, err := fn(doc)
	if err != nil || !changed {
		return err
	}
	r.doc = doc
	r.writes++
	return nil
}

func (r *memoryRepository) Close() error { return nil }

func (r *memoryRepository) snapshot() *model.Document {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.doc.Clone()
}

func (r *memoryRepository) writeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writes
}
