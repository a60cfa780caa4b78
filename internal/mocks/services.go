package mocks

import (
	"context"
	"sort"
	"time"

	"github.com/page-comments-api/internal/models"
	"github.com/page-comments-api/internal/service"
)

// MockCommentService is a mock implementation of CommentService
type MockCommentService struct {
	Comments    map[int64]*models.Comment
	NextID      int64
	CreateFunc  func(ctx context.Context, sub *models.CommentSubmission) (*models.Comment, error)
	CreateError error
	ListError   error
	DeleteError error
}

// Verify interface compliance
var _ service.CommentService = (*MockCommentService)(nil)

func NewMockCommentService() *MockCommentService {
	return &MockCommentService{
		Comments: make(map[int64]*models.Comment),
		NextID:   1,
	}
}

func (m *MockCommentService) Create(ctx context.Context, sub *models.CommentSubmission) (*models.Comment, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, sub)
	}
	if m.CreateError != nil {
		return nil, m.CreateError
	}
	comment := &models.Comment{
		ID:             m.NextID,
		PageURL:        sub.PageURL,
		AuthorName:     sub.AuthorName,
		CommentContent: sub.CommentContent,
		Status:         models.StatusApproved,
		CreatedAt:      time.Now(),
	}
	m.Comments[comment.ID] = comment
	m.NextID++
	return comment, nil
}

func (m *MockCommentService) ListByPage(ctx context.Context, pageURL string) ([]*models.Comment, error) {
	if m.ListError != nil {
		return nil, m.ListError
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

func (m *MockCommentService) ListAll(ctx context.Context) ([]*models.Comment, error) {
	if m.ListError != nil {
		return nil, m.ListError
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

func (m *MockCommentService) Delete(ctx context.Context, id int64) error {
	if m.DeleteError != nil {
		return m.DeleteError
	}
	if _, ok := m.Comments[id]; !ok {
		return service.ErrCommentNotFound
	}
	delete(m.Comments, id)
	return nil
}

func (m *MockCommentService) Count(ctx context.Context) (int, error) {
	if m.ListError != nil {
		return 0, m.ListError
	}
	return len(m.Comments), nil
}

// MockSecretService is a mock implementation of SecretService
type MockSecretService struct {
	Secret      string
	UpdateFunc  func(ctx context.Context, currentSecret, newSecret string) error
	UpdateCalls int
}

// Verify interface compliance
var _ service.SecretService = (*MockSecretService)(nil)

func NewMockSecretService(secret string) *MockSecretService {
	return &MockSecretService{Secret: secret}
}

func (m *MockSecretService) Resolve(ctx context.Context) string {
	return m.Secret
}

func (m *MockSecretService) IsAuthorized(ctx context.Context, supplied string) bool {
	return supplied != "" && supplied == m.Secret
}

func (m *MockSecretService) Update(ctx context.Context, currentSecret, newSecret string) error {
	m.UpdateCalls++
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, currentSecret, newSecret)
	}
	if len(newSecret) < models.MinSecretLen {
		return service.ErrSecretTooShort
	}
	if m.Secret != "" && currentSecret != m.Secret {
		return service.ErrWrongSecret
	}
	m.Secret = newSecret
	return nil
}
