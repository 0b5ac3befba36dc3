// Package draftstore persists in-progress booking drafts in Redis.
//
// The collection is small (one console user's drafts) and every operation
// works over the full set, so drafts live in a single hash keyed by draft id.
// Persistence failures are logged and degrade to empty or no-op results; the
// console must stay usable with an empty draft list rather than crash.
package draftstore

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"booking_portal_backend/internal/booking/domain"
	"booking_portal_backend/platform/config"
	"booking_portal_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	draftsKey   = "booking:drafts"
	snapshotKey = "booking:wizard:snapshot"
)

// NewRedisClient creates a Redis client from configuration.
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	if cfg.GetRedisTLSInsecure() {
		if opt.TLSConfig == nil {
			opt.TLSConfig = &tls.Config{InsecureSkipVerify: true}
		} else {
			opt.TLSConfig.InsecureSkipVerify = true
		}
	}

	return redis.NewClient(opt), nil
}

// Store is the local draft store.
type Store struct {
	rdb *redis.Client
	log *logger.Logger
	now func() time.Time
}

// New creates a draft store backed by the given Redis client.
func New(rdb *redis.Client, log *logger.Logger) *Store {
	return &Store{rdb: rdb, log: log, now: time.Now}
}

// SetClock overrides the store's clock. Test hook.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// List returns all drafts, ordered by most recently updated first.
func (s *Store) List(ctx context.Context) []domain.BookingDraft {
	drafts, err := s.loadAll(ctx)
	if err != nil {
		s.log.DraftStoreError("list", err)
		return []domain.BookingDraft{}
	}
	return drafts
}

// SaveParams carries the wizard payload for a draft save.
type SaveParams struct {
	Service      *domain.Service
	GeneralInfo  domain.GeneralInfo
	ServiceInfo  domain.ServiceInfo
	CustomerForm domain.FormData
	VendorForm   domain.FormData
	ServiceForm  domain.FormData
}

// Save persists the wizard payload as a draft. When an existing draft matches
// on (service id, general-info customer) it is updated in place, keeping its
// id and createdAt and refreshing updatedAt; otherwise a new draft is created.
// The name defaults to one derived from the service title.
func (s *Store) Save(ctx context.Context, params SaveParams, name string) (*domain.BookingDraft, error) {
	now := s.now()

	draft := s.findMatch(ctx, params)
	if draft == nil {
		draft = &domain.BookingDraft{
			ID:        "draft_" + uuid.NewString(),
			Status:    domain.DraftStatusDraft,
			CreatedAt: now,
		}
	}

	draft.Service = params.Service
	draft.GeneralInfo = params.GeneralInfo
	draft.ServiceInfo = params.ServiceInfo
	draft.CustomerForm = params.CustomerForm.Clone()
	draft.VendorForm = params.VendorForm.Clone()
	draft.ServiceForm = params.ServiceForm.Clone()
	draft.UpdatedAt = now

	if name != "" {
		draft.Name = name
	} else if draft.Name == "" {
		draft.Name = defaultDraftName(params.Service)
	}

	if err := s.put(ctx, draft); err != nil {
		s.log.DraftStoreError("save", err)
		return nil, fmt.Errorf("save draft: %w", err)
	}
	return draft, nil
}

// Get returns the draft with the given id, or nil when absent or unreadable.
func (s *Store) Get(ctx context.Context, id string) *domain.BookingDraft {
	raw, err := s.rdb.HGet(ctx, draftsKey, id).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		s.log.DraftStoreError("get", err)
		return nil
	}

	var draft domain.BookingDraft
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		s.log.DraftStoreError("get", err)
		return nil
	}
	return &draft
}

// Delete removes a draft. Returns true iff a draft with that id existed.
func (s *Store) Delete(ctx context.Context, id string) bool {
	removed, err := s.rdb.HDel(ctx, draftsKey, id).Result()
	if err != nil {
		s.log.DraftStoreError("delete", err)
		return false
	}
	return removed > 0
}

// Complete finalizes a draft after its submission produced a quotation.
// With deleteAfterCompletion the draft is removed outright; otherwise it is
// kept with status=completed and the quotation id recorded. Returns false
// when the id is unknown.
func (s *Store) Complete(ctx context.Context, id, quotationID string, deleteAfterCompletion bool) bool {
	draft := s.Get(ctx, id)
	if draft == nil {
		return false
	}

	if deleteAfterCompletion {
		return s.Delete(ctx, id)
	}

	draft.Status = domain.DraftStatusCompleted
	draft.QuotationID = quotationID
	draft.UpdatedAt = s.now()
	if err := s.put(ctx, draft); err != nil {
		s.log.DraftStoreError("complete", err)
		return false
	}
	return true
}

// Search returns drafts whose name, service title, customer, or destination
// contains the query, case-insensitively.
func (s *Store) Search(ctx context.Context, query string) []domain.BookingDraft {
	query = strings.ToLower(strings.TrimSpace(query))
	all := s.List(ctx)
	if query == "" {
		return all
	}

	matched := make([]domain.BookingDraft, 0, len(all))
	for _, draft := range all {
		if draftMatchesQuery(&draft, query) {
			matched = append(matched, draft)
		}
	}
	return matched
}

// ClearAll removes every draft.
func (s *Store) ClearAll(ctx context.Context) {
	if err := s.rdb.Del(ctx, draftsKey).Err(); err != nil {
		s.log.DraftStoreError("clear_all", err)
	}
}

// Count returns the number of stored drafts.
func (s *Store) Count(ctx context.Context) int {
	n, err := s.rdb.HLen(ctx, draftsKey).Result()
	if err != nil {
		s.log.DraftStoreError("count", err)
		return 0
	}
	return int(n)
}

// ── internals ─────────────────────────────────────────────────────────────────

func (s *Store) put(ctx context.Context, draft *domain.BookingDraft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	return s.rdb.HSet(ctx, draftsKey, draft.ID, data).Err()
}

func (s *Store) loadAll(ctx context.Context) ([]domain.BookingDraft, error) {
	raw, err := s.rdb.HGetAll(ctx, draftsKey).Result()
	if err != nil {
		return nil, err
	}

	drafts := make([]domain.BookingDraft, 0, len(raw))
	for id, value := range raw {
		var draft domain.BookingDraft
		if err := json.Unmarshal([]byte(value), &draft); err != nil {
			// One corrupted entry should not hide the rest.
			s.log.DraftStoreError("decode "+id, err)
			continue
		}
		drafts = append(drafts, draft)
	}

	sort.Slice(drafts, func(i, j int) bool {
		if drafts[i].UpdatedAt.Equal(drafts[j].UpdatedAt) {
			return drafts[i].ID < drafts[j].ID
		}
		return drafts[i].UpdatedAt.After(drafts[j].UpdatedAt)
	})
	return drafts, nil
}

func (s *Store) findMatch(ctx context.Context, params SaveParams) *domain.BookingDraft {
	if params.Service == nil {
		return nil
	}
	for _, draft := range s.List(ctx) {
		if draft.Matches(params.Service.ID, params.GeneralInfo.Customer) {
			match := draft
			return &match
		}
	}
	return nil
}

func draftMatchesQuery(draft *domain.BookingDraft, query string) bool {
	fields := []string{
		draft.Name,
		draft.GeneralInfo.Customer,
		draft.ServiceInfo.Destination,
	}
	if draft.Service != nil {
		fields = append(fields, draft.Service.Title)
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

func defaultDraftName(service *domain.Service) string {
	if service == nil || service.Title == "" {
		return "Draft"
	}
	return "Draft - " + service.Title
}
