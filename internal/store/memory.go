package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/Lllllllleong/hoalens/internal/models"
)

// MemoryStore is an in-process Store used by tests and local runs.
type MemoryStore struct {
	mu    sync.RWMutex
	hoas  map[string]*models.HOA
	docs  map[string]*models.Document
	order []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		hoas: make(map[string]*models.HOA),
		docs: make(map[string]*models.Document),
	}
}

func (m *MemoryStore) InsertHOA(_ context.Context, hoa *models.HOA) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h := *hoa
	h.ID = uuid.NewString()
	StampHOA(&h)
	m.hoas[h.ID] = &h
	return h.ID, nil
}

func (m *MemoryStore) GetHOA(_ context.Context, id string) (*models.HOA, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.hoas[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *h
	return &cp, nil
}

func (m *MemoryStore) InsertDocument(_ context.Context, doc *models.Document) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := *doc
	d.ID = uuid.NewString()
	StampDocument(&d)
	m.docs[d.ID] = &d
	m.order = append(m.order, d.ID)
	return d.ID, nil
}

func (m *MemoryStore) GetDocument(_ context.Context, id string) (*models.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyDoc(d), nil
}

func (m *MemoryStore) SaveSummary(_ context.Context, id, summary string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[id]
	if !ok {
		return ErrNotFound
	}
	s := summary
	d.Summary = &s
	d.UpdatedAt = NowMillis()
	return nil
}

func (m *MemoryStore) ListDocuments(_ context.Context, limit int) ([]*models.Document, error) {
	if limit <= 0 {
		return []*models.Document{}, nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*models.Document, 0, min(limit, len(m.order)))
	for _, id := range m.order {
		if len(out) >= limit {
			break
		}
		out = append(out, copyDoc(m.docs[id]))
	}
	return out, nil
}

func (m *MemoryStore) ListDocumentsByHOA(_ context.Context, hoaID string) ([]*models.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*models.Document{}
	for _, id := range m.order {
		if d := m.docs[id]; d.HOAID == hoaID {
			out = append(out, copyDoc(d))
		}
	}
	return out, nil
}

func (m *MemoryStore) GetTranscript(ctx context.Context, id string) (string, error) {
	d, err := m.GetDocument(ctx, id)
	if err == ErrNotFound {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return d.Transcript, nil
}

func copyDoc(d *models.Document) *models.Document {
	cp := *d
	if d.Summary != nil {
		s := *d.Summary
		cp.Summary = &s
	}
	return &cp
}
