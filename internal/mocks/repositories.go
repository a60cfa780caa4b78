package mocks

import (
	"context"
	"sort"
	"time"

	"github.com/page-comments-api/internal/models"
	"github.com/page-comments-api/internal/repository"
)

// MockCommentRepository is a mock implementation of CommentRepository
type MockCommentRepository struct {
	Comments    map[int64]*models.Comment
	NextID      int64
	InsertError error
	QueryError  error
	DeleteError error
}

// Verify interface compliance
var _ repository.CommentRepository = (*MockCommentRepository)(nil)

func NewMockCommentRepository() *MockCommentRepository {
	return &MockCommentRepository{
		Comments: make(map[int64]*models.Comment),
		NextID:   1,
	}
}

func (m *MockCommentRepository) Create(ctx context.Context, pageURL, authorName, content string) (*models.Comment, error) {
	if m.InsertError != nil {
		return nil, m.InsertError
	}
	comment := &models.Comment{
		ID:             m.NextID,
		PageURL:        pageURL,
		AuthorName:     authorName,
		CommentContent: content,
		Status:         models.StatusApproved,
		CreatedAt:      time.Now(),
	}
	m.Comments[comment.ID] = comment
	m.NextID++
	return comment, nil
}

func (m *MockCommentRepository) ListByPage(ctx context.Context, pageURL string) ([]*models.Comment, error) {
	if m.QueryError != nil {
		return nil, m.QueryError
	}
	result := make([]*models.Comment, 0)
	for _, c := range m.Comments {
		if c.PageURL == pageURL && c.Status == models.StatusApproved {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (m *MockCommentRepository) ListAll(ctx context.Context) ([]*models.Comment, error) {
	if m.QueryError != nil {
		return nil, m.QueryError
	}
	result := make([]*models.Comment, 0, len(m.Comments))
	for _, c := range m.Comments {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *MockCommentRepository) Exists(ctx context.Context, id int64) (bool, error) {
	if m.QueryError != nil {
		return false, m.QueryError
	}
	_, ok := m.Comments[id]
	return ok, nil
}

func (m *MockCommentRepository) Delete(ctx context.Context, id int64) error {
	if m.DeleteError != nil {
		return m.DeleteError
	}
	if _, ok := m.Comments[id]; !ok {
		return repository.ErrNoRows
	}
	delete(m.Comments, id)
	return nil
}

func (m *MockCommentRepository) Count(ctx context.Context) (int, error) {
	if m.QueryError != nil {
		return 0, m.QueryError
	}
	return len(m.Comments), nil
}

// MockSecretRepository is a mock implementation of SecretRepository
type MockSecretRepository struct {
	Value    string
	HasValue bool
	GetError error
	SetError error
	SetCalls int
}

// Verify interface compliance
var _ repository.SecretRepository = (*MockSecretRepository)(nil)

func NewMockSecretRepository() *MockSecretRepository {
	return &MockSecretRepository{}
}

func (m *MockSecretRepository) Get(ctx context.Context) (string, bool, error) {
	if m.GetError != nil {
		return "", false, m.GetError
	}
	return m.Value, m.HasValue, nil
}

func (m *MockSecretRepository) Set(ctx context.Context, value string) error {
	m.SetCalls++
	if m.SetError != nil {
		return m.SetError
	}
	m.Value = value
	m.HasValue = true
	return nil
}
