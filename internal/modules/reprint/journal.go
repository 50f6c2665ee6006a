package reprint

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/storeops/posdesk-backend/internal/modules/lookup"
)

// Entry is the auditable record of one reprint attempt. Every orchestration
// writes exactly one entry, success or failure, before returning.
type Entry struct {
	ID         uuid.UUID           `json:"id"`
	StoreCode  string              `json:"store_code"`
	Type       lookup.DocumentType `json:"document_type"`
	DocumentID string              `json:"document_id"`
	Reason     string              `json:"reason,omitempty"`
	Strategy   string              `json:"strategy,omitempty"`
	Outcome    Outcome             `json:"outcome"`
	Success    bool                `json:"success"`
	Detail     string              `json:"detail,omitempty"`
	At         time.Time           `json:"at"`
}

// Journal keeps attempt records for the process lifetime and mirrors each
// one to the structured log, which is what the reporting pipeline consumes.
type Journal struct {
	mu      sync.Mutex
	entries []Entry
	logger  *slog.Logger
}

func NewJournal(logger *slog.Logger) *Journal {
	return &Journal{logger: logger}
}

func (j *Journal) Record(e Entry) Entry {
	e.ID = uuid.New()
	e.At = time.Now()

	j.mu.Lock()
	j.entries = append(j.entries, e)
	j.mu.Unlock()

	j.logger.Info("reprint attempt recorded",
		"id", e.ID,
		"store", e.StoreCode,
		"type", e.Type,
		"document", e.DocumentID,
		"strategy", e.Strategy,
		"outcome", e.Outcome,
		"success", e.Success,
	)
	return e
}

// Entries returns a copy of all recorded attempts, oldest first.
func (j *Journal) Entries() []Entry {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]Entry, len(j.entries))
	copy(out, j.entries)
	return out
}
