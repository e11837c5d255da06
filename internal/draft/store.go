package draft

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"
)

const draftKey = "onboarding.draft"

// KV is the key/value backing for the draft blob. Satisfied by
// storage.AppConfigRepo.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Store persists the wizard draft as one serialized blob under a fixed
// key. Persistence is best-effort: failures never block the wizard, they
// are only logged. A session with a broken store still works in memory.
type Store struct {
	kv  KV
	log *logrus.Logger
}

func NewStore(kv KV, log *logrus.Logger) *Store {
	if log == nil {
		log = logrus.New()
	}
	return &Store{kv: kv, log: log}
}

// Load returns the stored draft merged onto defaults. Absence, read
// failure, or a corrupt blob all yield the default state; partial blobs
// keep defaults for any missing field.
func (s *Store) Load(ctx context.Context) WizardState {
	state := Default()

	raw, ok, err := s.kv.Get(ctx, draftKey)
	if err != nil {
		s.log.WithError(err).Warn("draft load failed, starting fresh")
		return state
	}
	if !ok {
		return state
	}

	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		s.log.WithError(err).Warn("draft blob is corrupt, starting fresh")
		return Default()
	}
	return state
}

// Save serializes the full draft. Fire-and-forget.
func (s *Store) Save(ctx context.Context, state WizardState) {
	encoded, err := json.Marshal(state)
	if err != nil {
		s.log.WithError(err).Warn("draft encode failed, not persisted")
		return
	}
	if err := s.kv.Set(ctx, draftKey, string(encoded)); err != nil {
		s.log.WithError(err).Warn("draft save failed, continuing in memory")
	}
}

// Clear removes the stored blob. Called once, at wizard completion.
func (s *Store) Clear(ctx context.Context) {
	if err := s.kv.Delete(ctx, draftKey); err != nil {
		s.log.WithError(err).Warn("draft clear failed")
	}
}
