package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/akarpov/docflow/internal/app/models"
	"github.com/akarpov/docflow/internal/app/repositories"
)

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Create(ctx context.Context, doc *models.Document) (int64, error) {
	args := m.Called(ctx, doc)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDocumentRepository) GetByID(ctx context.Context, id int64) (*models.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Document), args.Error(1)
}

func (m *MockDocumentRepository) ListByStudent(ctx context.Context, email string, statuses []models.DocumentStatus) ([]*models.Document, error) {
	args := m.Called(ctx, email, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Document), args.Error(1)
}

func (m *MockDocumentRepository) ListByTeacher(ctx context.Context, teacherID int64) ([]*models.Document, error) {
	args := m.Called(ctx, teacherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Document), args.Error(1)
}

func (m *MockDocumentRepository) ListByStatuses(ctx context.Context, statuses []models.DocumentStatus) ([]*models.Document, error) {
	args := m.Called(ctx, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Document), args.Error(1)
}

func (m *MockDocumentRepository) ApplyTransition(ctx context.Context, t repositories.Transition) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}
