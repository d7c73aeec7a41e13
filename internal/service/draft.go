package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/pageza/smartfridge/internal/model"
)

// DefaultDraftTTL is how long an untouched draft is kept
const DefaultDraftTTL = 24 * time.Hour

const draftKeyPrefix = "recipe:draft:"

func draftKey(id string) string {
	return draftKeyPrefix + id
}

// NewDraft wraps a parsed recipe in a draft that has not been saved yet
func NewDraft(recipe *model.ParsedRecipe, source string) *model.Draft {
	return &model.Draft{Recipe: *recipe, Source: source}
}

// RedisDraftStore keeps drafts in Redis with a sliding TTL
type RedisDraftStore struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewRedisDraftStore creates a store; a zero ttl means DefaultDraftTTL
func NewRedisDraftStore(client *redis.Client, ttl time.Duration) *RedisDraftStore {
	if ttl <= 0 {
		ttl = DefaultDraftTTL
	}
	return &RedisDraftStore{redis: client, ttl: ttl}
}

// SaveDraft assigns a new ID and stores draft
func (s *RedisDraftStore) SaveDraft(ctx context.Context, draft *model.Draft) error {
	draft.ID = uuid.New().String()
	draft.CreatedAt = time.Now()
	draft.UpdatedAt = draft.CreatedAt

	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}

	if err := s.redis.Set(ctx, draftKey(draft.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save draft to Redis: %w", err)
	}
	return nil
}

// GetDraft loads a draft by ID
func (s *RedisDraftStore) GetDraft(ctx context.Context, id string) (*model.Draft, error) {
	data, err := s.redis.Get(ctx, draftKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft from Redis: %w", err)
	}

	var draft model.Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}
	return &draft, nil
}

// UpdateDraft overwrites an existing draft and refreshes its TTL
func (s *RedisDraftStore) UpdateDraft(ctx context.Context, draft *model.Draft) error {
	draft.UpdatedAt = time.Now()

	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}

	// XX: only overwrite keys that still exist
	ok, err := s.redis.SetXX(ctx, draftKey(draft.ID), data, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to update draft in Redis: %w", err)
	}
	if !ok {
		return ErrDraftNotFound
	}
	return nil
}

// DeleteDraft removes a draft
func (s *RedisDraftStore) DeleteDraft(ctx context.Context, id string) error {
	n, err := s.redis.Del(ctx, draftKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete draft from Redis: %w", err)
	}
	if n == 0 {
		return ErrDraftNotFound
	}
	return nil
}

// MemoryDraftStore keeps drafts in process memory. It is used when Redis is
// not configured; drafts do not survive a restart.
type MemoryDraftStore struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	drafts map[string]model.Draft
}

// NewMemoryDraftStore creates an in-memory store; a zero ttl means DefaultDraftTTL
func NewMemoryDraftStore(ttl time.Duration) *MemoryDraftStore {
	if ttl <= 0 {
		ttl = DefaultDraftTTL
	}
	return &MemoryDraftStore{ttl: ttl, now: time.Now, drafts: map[string]model.Draft{}}
}

func (s *MemoryDraftStore) expired(d model.Draft) bool {
	return s.now().Sub(d.UpdatedAt) > s.ttl
}

// SaveDraft assigns a new ID and stores draft. Expired drafts are dropped
// on every save so abandoned ones do not pile up.
func (s *MemoryDraftStore) SaveDraft(_ context.Context, draft *model.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, d := range s.drafts {
		if s.expired(d) {
			delete(s.drafts, id)
		}
	}

	draft.ID = uuid.New().String()
	draft.CreatedAt = s.now()
	draft.UpdatedAt = draft.CreatedAt
	s.drafts[draft.ID] = *draft
	return nil
}

// GetDraft loads a draft by ID
func (s *MemoryDraftStore) GetDraft(_ context.Context, id string) (*model.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[id]
	if !ok || s.expired(d) {
		delete(s.drafts, id)
		return nil, ErrDraftNotFound
	}
	return &d, nil
}

// UpdateDraft overwrites an existing draft
func (s *MemoryDraftStore) UpdateDraft(_ context.Context, draft *model.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[draft.ID]
	if !ok || s.expired(d) {
		delete(s.drafts, draft.ID)
		return ErrDraftNotFound
	}
	draft.CreatedAt = d.CreatedAt
	draft.UpdatedAt = s.now()
	s.drafts[draft.ID] = *draft
	return nil
}

// DeleteDraft removes a draft
func (s *MemoryDraftStore) DeleteDraft(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.drafts[id]; !ok {
		return ErrDraftNotFound
	}
	delete(s.drafts, id)
	return nil
}
