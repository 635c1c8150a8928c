package notifier_test

import (
	"context"
	"errors"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	kafkax "github.com/justmahmoud31/Ryo-Server/internal/kafka"
	"github.com/justmahmoud31/Ryo-Server/internal/notifier"
	"github.com/justmahmoud31/Ryo-Server/internal/orders"
	"github.com/justmahmoud31/Ryo-Server/internal/users"
)

type fakeLookup struct {
	users map[string]*users.User
}

func (f *fakeLookup) GetByID(ctx context.Context, id string) (*users.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	return u, nil
}

type fakeMailer struct {
	sent []string // orderID
	fail error
}

func (f *fakeMailer) SendOrderConfirmation(to, orderID string, totalCents int) error {
	if f.fail != nil {
		return f.fail
	}
	f.sent = append(f.sent, orderID)
	return nil
}

type memDedup struct{ seen map[string]bool }

func newMemDedup() *memDedup { return &memDedup{seen: map[string]bool{}} }

func (d *memDedup) Seen(ctx context.Context, eventID string) (bool, error) {
	return d.seen[eventID], nil
}

func (d *memDedup) Mark(ctx context.Context, eventID string) error {
	d.seen[eventID] = true
	return nil
}

func message(t *testing.T, eventID, eventType string, p orders.OrderCreatedPayload) kafkago.Message {
	t.Helper()
	env := orders.Envelope{
		EventID:      eventID,
		EventType:    eventType,
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Producer:     "ryo-api",
		Payload:      kafkax.MustMarshal(p),
	}
	return kafkago.Message{Key: []byte(p.OrderID), Value: kafkax.MustMarshal(env)}
}

func newService() (*notifier.Service, *fakeMailer, *memDedup) {
	ml := &fakeMailer{}
	dd := newMemDedup()
	svc := &notifier.Service{
		Users: &fakeLookup{users: map[string]*users.User{
			"u-1": {ID: "u-1", Email: "ada@example.com"},
		}},
		Mail:  ml,
		Dedup: dd,
		Log:   zap.NewNop(),
	}
	return svc, ml, dd
}

func TestHandleOrderCreated(t *testing.T) {
	svc, ml, dd := newService()
	m := message(t, "evt-1", orders.EventOrderCreated, orders.OrderCreatedPayload{
		OrderID: "o-1", UserID: "u-1", TotalCents: 2500,
	})

	require.NoError(t, svc.HandleOrderCreated(context.Background(), m))
	assert.Equal(t, []string{"o-1"}, ml.sent)
	assert.True(t, dd.seen["evt-1"])
}

func TestHandleOrderCreatedRedelivery(t *testing.T) {
	svc, ml, _ := newService()
	m := message(t, "evt-1", orders.EventOrderCreated, orders.OrderCreatedPayload{
		OrderID: "o-1", UserID: "u-1",
	})

	require.NoError(t, svc.HandleOrderCreated(context.Background(), m))
	require.NoError(t, svc.HandleOrderCreated(context.Background(), m))
	assert.Len(t, ml.sent, 1, "redelivered event must not mail twice")
}

func TestHandleOrderCreatedSkipsOtherEvents(t *testing.T) {
	svc, ml, _ := newService()
	m := message(t, "evt-2", orders.EventOrderStatusChanged, orders.OrderCreatedPayload{
		OrderID: "o-1", UserID: "u-1",
	})

	require.NoError(t, svc.HandleOrderCreated(context.Background(), m))
	assert.Empty(t, ml.sent)
}

func TestHandleOrderCreatedUnknownUser(t *testing.T) {
	svc, ml, _ := newService()
	m := message(t, "evt-3", orders.EventOrderCreated, orders.OrderCreatedPayload{
		OrderID: "o-1", UserID: "gone",
	})

	// dropped, not retried
	require.NoError(t, svc.HandleOrderCreated(context.Background(), m))
	assert.Empty(t, ml.sent)
}

func TestHandleOrderCreatedMailFailureRetries(t *testing.T) {
	svc, ml, dd := newService()
	ml.fail = errors.New("smtp down")
	m := message(t, "evt-4", orders.EventOrderCreated, orders.OrderCreatedPayload{
		OrderID: "o-1", UserID: "u-1",
	})

	require.Error(t, svc.HandleOrderCreated(context.Background(), m))
	assert.False(t, dd.seen["evt-4"], "failed send must stay unmarked so the event retries")

	ml.fail = nil
	require.NoError(t, svc.HandleOrderCreated(context.Background(), m))
	assert.Equal(t, []string{"o-1"}, ml.sent)
}

func TestHandleOrderCreatedBadPayload(t *testing.T) {
	svc, _, _ := newService()
	err := svc.HandleOrderCreated(context.Background(), kafkago.Message{Value: []byte("{not json")})
	require.Error(t, err)
}
