package testutil

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"foodgram/entities"
	"foodgram/internal/utils/mailing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func CreateUser(t *testing.T, db *gorm.DB, username string) *entities.User {
	t.Helper()
	user := &entities.User{
		Email:     username + "@foodgram.test",
		Username:  username,
		FirstName: "First " + username,
		LastName:  "Last " + username,
		Password:  "not-a-hash",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func CreateIngredient(t *testing.T, db *gorm.DB, name, unit string) *entities.Ingredient {
	t.Helper()
	ingredient := &entities.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(ingredient).Error)
	return ingredient
}

func CreateTag(t *testing.T, db *gorm.DB, slug string) *entities.Tag {
	t.Helper()
	tag := &entities.Tag{Name: "Tag " + slug, Slug: slug}
	require.NoError(t, db.Create(tag).Error)
	return tag
}

// MemoryStorage keeps uploads in memory.
type MemoryStorage struct {
	mu      sync.Mutex
	Files   map[string][]byte
	Deleted []string
	Err     error
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{Files: map[string][]byte{}}
}

func (s *MemoryStorage) UploadFile(_ context.Context, key string, body []byte, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return "", s.Err
	}
	s.Files[key] = body
	return fmt.Sprintf("https://media.foodgram.test/%s", key), nil
}

func (s *MemoryStorage) DeleteFile(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Files, key)
	s.Deleted = append(s.Deleted, key)
	return nil
}

type SentMail struct {
	To          string
	Subject     string
	Body        string
	Attachments []mailing.Attachment
}

// MemoryMailer records messages instead of sending them.
type MemoryMailer struct {
	mu   sync.Mutex
	Sent []SentMail
	Err  error
}

func (m *MemoryMailer) SendMail(to string, subject string, body string, attachments ...mailing.Attachment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, SentMail{To: to, Subject: subject, Body: body, Attachments: attachments})
	return nil
}
