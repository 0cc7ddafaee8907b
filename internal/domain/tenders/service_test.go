package tenders

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memTenderStore struct {
	tenders map[uuid.UUID]*Tender
	bidders map[string]*Bidder // by registration number
}

func newMemTenderStore() *memTenderStore {
	return &memTenderStore{
		tenders: make(map[uuid.UUID]*Tender),
		bidders: make(map[string]*Bidder),
	}
}

func (m *memTenderStore) CreateTender(_ context.Context, t *Tender) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	m.tenders[t.ID] = t
	return nil
}

func (m *memTenderStore) GetTender(_ context.Context, id uuid.UUID) (*Tender, error) {
	t, ok := m.tenders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return t, nil
}

func (m *memTenderStore) ListTenders(_ context.Context, limit, _ int) ([]Tender, error) {
	var out []Tender
	for _, t := range m.tenders {
		if len(out) < limit {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *memTenderStore) UpdateTender(_ context.Context, t *Tender) error {
	if _, ok := m.tenders[t.ID]; !ok {
		return ErrNotFound
	}
	m.tenders[t.ID] = t
	return nil
}

func (m *memTenderStore) DeleteTender(_ context.Context, id uuid.UUID) error {
	if _, ok := m.tenders[id]; !ok {
		return ErrNotFound
	}
	delete(m.tenders, id)
	return nil
}

func (m *memTenderStore) CreateBidder(_ context.Context, b *Bidder) error {
	if existing, ok := m.bidders[b.RegistrationNumber]; ok {
		existing.Name = b.Name
		b.ID = existing.ID
		return nil
	}
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	m.bidders[b.RegistrationNumber] = b
	return nil
}

func (m *memTenderStore) GetBidder(_ context.Context, id uuid.UUID) (*Bidder, error) {
	for _, b := range m.bidders {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, ErrNotFound
}

func fakeTender() *Tender {
	return &Tender{
		Reference: gofakeit.Numerify("#####-####-####"),
		Title:     gofakeit.Sentence(4),
		Authority: gofakeit.Company(),
	}
}

func TestService_Create(t *testing.T) {
	gofakeit.Seed(42)
	svc := NewService(newMemTenderStore(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	t.Run("valid tender", func(t *testing.T) {
		tender := fakeTender()
		require.NoError(t, svc.Create(ctx, tender))
		assert.NotEqual(t, uuid.Nil, tender.ID)

		got, err := svc.Get(ctx, tender.ID)
		require.NoError(t, err)
		assert.Equal(t, tender.Reference, got.Reference)
	})

	t.Run("missing reference rejected", func(t *testing.T) {
		tender := fakeTender()
		tender.Reference = "  "
		assert.ErrorIs(t, svc.Create(ctx, tender), ErrInvalidTender)
	})

	t.Run("missing title rejected", func(t *testing.T) {
		tender := fakeTender()
		tender.Title = ""
		assert.ErrorIs(t, svc.Create(ctx, tender), ErrInvalidTender)
	})
}

func TestService_RegisterBidder(t *testing.T) {
	gofakeit.Seed(42)
	svc := NewService(newMemTenderStore(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	bidder := &Bidder{Name: gofakeit.Company(), RegistrationNumber: gofakeit.Numerify("#########")}
	require.NoError(t, svc.RegisterBidder(ctx, bidder))

	t.Run("re-registration keeps identity", func(t *testing.T) {
		again := &Bidder{Name: "Renamed Ltd", RegistrationNumber: bidder.RegistrationNumber}
		require.NoError(t, svc.RegisterBidder(ctx, again))
		assert.Equal(t, bidder.ID, again.ID)

		got, err := svc.GetBidder(ctx, bidder.ID)
		require.NoError(t, err)
		assert.Equal(t, "Renamed Ltd", got.Name)
	})

	t.Run("blank fields rejected", func(t *testing.T) {
		err := svc.RegisterBidder(ctx, &Bidder{Name: "", RegistrationNumber: "123"})
		assert.ErrorIs(t, err, ErrInvalidTender)
	})
}
