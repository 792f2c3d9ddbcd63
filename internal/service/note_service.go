package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"Notes/internal/cache"
	dom "Notes/internal/domain"
	"Notes/internal/repo"
	"Notes/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("note not found")
	ErrStorage    = errors.New("storage failure")
)

// ErrDuplicateID is a storage failure caused by an id collision on insert.
var ErrDuplicateID = fmt.Errorf("%w: duplicate note id", ErrStorage)

type NoteService struct {
	repo   repo.NoteRepo
	cache  *cache.NoteCache
	log    *zap.Logger
	sf     singleflight.Group
	layout string

	newID func() string
	now   func() time.Time
}

// NewNoteService creates a NoteService. If c is nil, caching is disabled.
func NewNoteService(r repo.NoteRepo, c *cache.NoteCache, log *zap.Logger, timeLayout string) *NoteService {
	if log == nil {
		log = zap.NewNop()
	}
	return &NoteService{
		repo:   r,
		cache:  c,
		log:    log,
		layout: timeLayout,
		newID:  uuid.NewString,
		now:    time.Now,
	}
}

func (s *NoteService) Create(ctx context.Context, title, content string) (dom.Note, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return dom.Note{}, fmt.Errorf("%w: title and content are required", ErrValidation)
	}
	n := dom.Note{
		ID:        s.newID(),
		Title:     title,
		Content:   content,
		CreatedAt: s.now().Format(s.layout),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		if utils.IsUniqueViolation(err) {
			return dom.Note{}, fmt.Errorf("%w: %w", ErrDuplicateID, err)
		}
		return dom.Note{}, fmt.Errorf("%w: create note: %w", ErrStorage, err)
	}
	s.invalidateCache(ctx, "")
	return n, nil
}

func (s *NoteService) List(ctx context.Context) ([]dom.Note, error) {
	if s.cache != nil {
		v, err, _ := s.sf.Do("list", func() (interface{}, error) {
			// shared by every waiter, so it must outlive the first caller's request
			ctx := context.WithoutCancel(ctx)
			if list, err := s.cache.GetList(ctx); err == nil && list != nil {
				return list, nil
			} else if err != nil {
				s.log.Warn("cache get list failed", zap.Error(err))
			}
			gen, genErr := s.cache.Generation(ctx)
			list, err := s.list(ctx)
			if err != nil {
				return nil, err
			}
			if genErr != nil {
				s.log.Warn("cache generation failed", zap.Error(genErr))
			} else if _, err := s.cache.SetList(ctx, gen, list); err != nil {
				s.log.Warn("cache set list failed", zap.Error(err))
			}
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.Note), nil
	}
	return s.list(ctx)
}

func (s *NoteService) list(ctx context.Context) ([]dom.Note, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list notes: %w", ErrStorage, err)
	}
	if list == nil {
		list = []dom.Note{}
	}
	return list, nil
}

func (s *NoteService) GetByID(ctx context.Context, id string) (dom.Note, error) {
	var gen int64
	cacheable := false
	if s.cache != nil {
		n, ok, err := s.cache.GetNote(ctx, id)
		if err != nil {
			s.log.Warn("cache get note failed", zap.String("note_id", id), zap.Error(err))
		} else if ok {
			return n, nil
		}
		if gen, err = s.cache.Generation(ctx); err != nil {
			s.log.Warn("cache generation failed", zap.String("note_id", id), zap.Error(err))
		} else {
			cacheable = true
		}
	}
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dom.Note{}, ErrNotFound
		}
		return dom.Note{}, fmt.Errorf("%w: get note: %w", ErrStorage, err)
	}
	if cacheable {
		// skipped when a write invalidated the cache after gen was taken
		if _, err := s.cache.SetNote(ctx, gen, n); err != nil {
			s.log.Warn("cache set note failed", zap.String("note_id", id), zap.Error(err))
		}
	}
	return n, nil
}

// Update changes only the fields that are present and non-empty.
func (s *NoteService) Update(ctx context.Context, id string, title, content *string) error {
	title, content = nonEmpty(title), nonEmpty(content)
	if title == nil && content == nil {
		return fmt.Errorf("%w: title or content is required", ErrValidation)
	}
	n, err := s.repo.Update(ctx, id, title, content)
	if err != nil {
		return fmt.Errorf("%w: update note: %w", ErrStorage, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	s.invalidateCache(ctx, id)
	return nil
}

func (s *NoteService) Delete(ctx context.Context, id string) error {
	n, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: delete note: %w", ErrStorage, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	s.invalidateCache(ctx, id)
	return nil
}

func (s *NoteService) invalidateCache(ctx context.Context, id string) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, id); err != nil {
			s.log.Warn("cache invalidate failed", zap.String("note_id", id), zap.Error(err))
		}
	}
}

func nonEmpty(p *string) *string {
	if p == nil || strings.TrimSpace(*p) == "" {
		return nil
	}
	return p
}
