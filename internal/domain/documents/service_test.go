package documents

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/bid-ledger/pkg/storage"
)

// memStore is an in-memory DocumentStore for service tests.
type memStore struct {
	docs map[uuid.UUID]*Document
}

func newMemStore() *memStore {
	return &memStore{docs: make(map[uuid.UUID]*Document)}
}

func (m *memStore) Create(_ context.Context, doc *Document) error {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	copied := *doc
	m.docs[doc.ID] = &copied
	return nil
}

func (m *memStore) GetByID(_ context.Context, id uuid.UUID) (*Document, error) {
	doc, ok := m.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return doc, nil
}

func (m *memStore) FindByHash(_ context.Context, tenderID uuid.UUID, hash string) (*Document, error) {
	for _, doc := range m.docs {
		if doc.TenderID == tenderID && doc.ContentHash == hash {
			return doc, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memStore) ListPending(_ context.Context, limit int) ([]Document, error) {
	var out []Document
	for _, doc := range m.docs {
		if doc.Status == StatusUploaded && len(out) < limit {
			out = append(out, *doc)
		}
	}
	return out, nil
}

func (m *memStore) MarkParsed(_ context.Context, id uuid.UUID) error {
	doc, ok := m.docs[id]
	if !ok {
		return ErrNotFound
	}
	doc.Status = StatusParsed
	return nil
}

func (m *memStore) MarkFailed(_ context.Context, id uuid.UUID, reason string) error {
	doc, ok := m.docs[id]
	if !ok {
		return ErrNotFound
	}
	doc.Status = StatusFailed
	doc.FailureReason = &reason
	return nil
}

func newTestService(t *testing.T) (*Service, *memStore) {
	t.Helper()
	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	store := newMemStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(store, files, logger), store
}

func TestService_Register(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	params := RegisterParams{
		TenderID: uuid.New(),
		BidderID: uuid.New(),
		Filename: "offer.txt",
	}

	doc, err := svc.Register(ctx, params, strings.NewReader("50421200\n-4\nУслуга\n1,00\n"))
	require.NoError(t, err)
	assert.Equal(t, StatusUploaded, doc.Status)
	assert.Len(t, doc.ContentHash, 64)

	t.Run("identical content is rejected", func(t *testing.T) {
		_, err := svc.Register(ctx, params, strings.NewReader("50421200\n-4\nУслуга\n1,00\n"))
		assert.ErrorIs(t, err, ErrDuplicateDocument)
	})

	t.Run("same content under another tender is fine", func(t *testing.T) {
		other := params
		other.TenderID = uuid.New()
		_, err := svc.Register(ctx, other, strings.NewReader("50421200\n-4\nУслуга\n1,00\n"))
		assert.NoError(t, err)
	})
}

func TestService_Lines(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	doc, err := svc.Register(ctx, RegisterParams{
		TenderID: uuid.New(),
		BidderID: uuid.New(),
		Filename: "offer.txt",
	}, strings.NewReader("  50421200  \n-4\n\n  Услуга\n1,00"))
	require.NoError(t, err)

	lines, err := svc.Lines(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, []string{"50421200", "-4", "", "Услуга", "1,00"}, lines)
}

func TestService_StatusTransitions(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	doc, err := svc.Register(ctx, RegisterParams{
		TenderID: uuid.New(),
		BidderID: uuid.New(),
		Filename: "offer.txt",
	}, strings.NewReader("50421200"))
	require.NoError(t, err)

	require.NoError(t, svc.MarkParsed(ctx, doc.ID))
	assert.Equal(t, StatusParsed, store.docs[doc.ID].Status)

	require.NoError(t, svc.MarkFailed(ctx, doc.ID, "control characters in input"))
	assert.Equal(t, StatusFailed, store.docs[doc.ID].Status)
	require.NotNil(t, store.docs[doc.ID].FailureReason)
}

func TestReadLines(t *testing.T) {
	lines, err := ReadLines(strings.NewReader("a\r\n b \nc"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, lines)
}
