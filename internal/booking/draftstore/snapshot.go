package draftstore

import (
	"context"
	"encoding/json"

	"booking_portal_backend/internal/booking/domain"

	"github.com/redis/go-redis/v9"
)

// Snapshot is the last persisted wizard state, written on every state change
// so an interrupted session can resume where it left off. Steps are stored by
// name so the store stays ignorant of the workflow's step type.
type Snapshot struct {
	Service        *domain.Service    `json:"service,omitempty"`
	GeneralInfo    domain.GeneralInfo `json:"generalInfo"`
	ServiceInfo    domain.ServiceInfo `json:"serviceInfo"`
	CustomerForm   domain.FormData    `json:"customerForm,omitempty"`
	VendorForm     domain.FormData    `json:"vendorForm,omitempty"`
	ServiceForm    domain.FormData    `json:"serviceForm,omitempty"`
	CurrentStep    string             `json:"currentStep"`
	CompletedSteps []string           `json:"completedSteps,omitempty"`
	DraftID        string             `json:"draftId,omitempty"`
}

// SaveSnapshot overwrites the persisted wizard snapshot.
func (s *Store) SaveSnapshot(ctx context.Context, snap Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		s.log.DraftStoreError("snapshot_save", err)
		return
	}
	if err := s.rdb.Set(ctx, snapshotKey, data, 0).Err(); err != nil {
		s.log.DraftStoreError("snapshot_save", err)
	}
}

// LoadSnapshot returns the persisted wizard snapshot, or nil when none exists
// or it cannot be read.
func (s *Store) LoadSnapshot(ctx context.Context) *Snapshot {
	raw, err := s.rdb.Get(ctx, snapshotKey).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		s.log.DraftStoreError("snapshot_load", err)
		return nil
	}

	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		s.log.DraftStoreError("snapshot_load", err)
		return nil
	}
	return &snap
}

// ClearSnapshot removes the persisted wizard snapshot.
func (s *Store) ClearSnapshot(ctx context.Context) {
	if err := s.rdb.Del(ctx, snapshotKey).Err(); err != nil {
		s.log.DraftStoreError("snapshot_clear", err)
	}
}
