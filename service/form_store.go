package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"relocation-calculator/domain"
	"relocation-calculator/repository"
)

// FormStore keeps the latest form of each browser session. Saving a form
// replaces the previous one; nothing is kept once the TTL runs out.
type FormStore struct {
	cache  repository.CacheRepository
	ttl    time.Duration
	logger *logrus.Entry
}

func NewFormStore(cache repository.CacheRepository, ttl time.Duration) *FormStore {
	return &FormStore{
		cache:  cache,
		ttl:    ttl,
		logger: logrus.WithField("component", "form-store"),
	}
}

// Load returns the session's form, or a fresh form of the variant when the
// session has none or its stored form is for another variant.
func (s *FormStore) Load(ctx context.Context, sessionID string, variant domain.Variant) Form {
	data, ok, err := s.cache.Get(ctx, formCachePrefix+sessionID)
	if err != nil {
		s.logger.WithError(err).WithField("session", sessionID).Warn("failed to load form")
		return NewForm(variant)
	}
	if !ok {
		return NewForm(variant)
	}

	var form Form
	if err := json.Unmarshal([]byte(data), &form); err != nil {
		s.logger.WithError(err).WithField("session", sessionID).Warn("discarding malformed form")
		return NewForm(variant)
	}
	if form.Variant != variant {
		return NewForm(variant)
	}
	// A stored in-flight submission can't be resumed.
	if form.Busy() {
		form.Phase = PhaseIdle
		if form.Result != nil {
			form.Phase = PhaseDisplaying
		}
	}
	return form
}

func (s *FormStore) Save(ctx context.Context, sessionID string, form Form) error {
	data, err := json.Marshal(form)
	if err != nil {
		return fmt.Errorf("encode form: %w", err)
	}
	if err := s.cache.Set(ctx, formCachePrefix+sessionID, string(data), s.ttl); err != nil {
		return fmt.Errorf("save form: %w", err)
	}
	return nil
}

func (s *FormStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.cache.Delete(ctx, formCachePrefix+sessionID); err != nil {
		return fmt.Errorf("delete form: %w", err)
	}
	return nil
}
