package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"keeper/internal/cache"
	apperrors "keeper/internal/errors"
	"keeper/internal/model"
	"keeper/internal/repository"
)

const (
	maxTitleLength = 200
	notesCacheTTL  = 5 * time.Minute
)

// NoteService handles CRUD on notes scoped to the authenticated owner.
type NoteService interface {
	List(ctx context.Context, ownerID uuid.UUID) ([]model.Note, error)
	Create(ctx context.Context, ownerID uuid.UUID, title, content string) (*model.Note, error)
	Update(ctx context.Context, ownerID, noteID uuid.UUID, title, content *string) (*model.Note, error)
	Delete(ctx context.Context, ownerID, noteID uuid.UUID) error
}

type noteService struct {
	notes repository.NoteRepository
	cache *cache.Client
}

// NewNoteService builds a NoteService with repository and cache.
func NewNoteService(notes repository.NoteRepository, cache *cache.Client) NoteService {
	return &noteService{notes: notes, cache: cache}
}

func (s *noteService) cacheKey(ownerID uuid.UUID) string {
	return fmt.Sprintf("notes:%s", ownerID.String())
}

// List returns the owner's notes, newest-created first, with caching.
func (s *noteService) List(ctx context.Context, ownerID uuid.UUID) ([]model.Note, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(ownerID)); data != nil {
		var cached []model.Note
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	notes, err := s.notes.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	if notes == nil {
		notes = []model.Note{}
	}

	if payload, err := json.Marshal(notes); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(ownerID), payload, notesCacheTTL)
	}

	return notes, nil
}

// Create stores a new note for the owner. A missing title defaults to the
// empty string; content must be non-empty after trimming.
func (s *noteService) Create(ctx context.Context, ownerID uuid.UUID, title, content string) (*model.Note, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)

	if content == "" {
		return nil, apperrors.ErrEmptyContent
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return nil, apperrors.ErrTitleTooLong
	}

	note := &model.Note{
		ID:      uuid.New(),
		Title:   title,
		Content: content,
		OwnerID: ownerID,
	}

	if err := s.notes.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(ownerID))
	return note, nil
}

// Update applies a partial update to an owned note. Omitted fields keep their
// prior values.
func (s *noteService) Update(ctx context.Context, ownerID, noteID uuid.UUID, title, content *string) (*model.Note, error) {
	note, err := s.findOwned(ctx, ownerID, noteID)
	if err != nil {
		return nil, err
	}

	if title != nil {
		trimmed := strings.TrimSpace(*title)
		if utf8.RuneCountInString(trimmed) > maxTitleLength {
			return nil, apperrors.ErrTitleTooLong
		}
		note.Title = trimmed
	}
	if content != nil {
		trimmed := strings.TrimSpace(*content)
		if trimmed == "" {
			return nil, apperrors.ErrEmptyContent
		}
		note.Content = trimmed
	}

	if err := s.notes.Update(ctx, note); err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(ownerID))
	return note, nil
}

// Delete removes an owned note. Deleting the same id again yields NotFound.
func (s *noteService) Delete(ctx context.Context, ownerID, noteID uuid.UUID) error {
	if _, err := s.findOwned(ctx, ownerID, noteID); err != nil {
		return err
	}

	if err := s.notes.Delete(ctx, noteID); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(ownerID))
	return nil
}

// findOwned looks the note up by id and then checks ownership separately, so
// a note owned by someone else is Forbidden rather than NotFound.
func (s *noteService) findOwned(ctx context.Context, ownerID, noteID uuid.UUID) (*model.Note, error) {
	note, err := s.notes.FindByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNoteNotFound
		}
		return nil, fmt.Errorf("find note: %w", err)
	}
	if note.OwnerID.String() != ownerID.String() {
		return nil, apperrors.ErrForbidden
	}
	return note, nil
}
