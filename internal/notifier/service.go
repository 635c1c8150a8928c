package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	kafkax "github.com/justmahmoud31/Ryo-Server/internal/kafka"
	"github.com/justmahmoud31/Ryo-Server/internal/orders"
	"github.com/justmahmoud31/Ryo-Server/internal/redisx"
	"github.com/justmahmoud31/Ryo-Server/internal/users"
)

type Mailer interface {
	SendOrderConfirmation(to, orderID string, totalCents int) error
}

type UserLookup interface {
	GetByID(ctx context.Context, id string) (*users.User, error)
}

// Dedup remembers processed event ids so redelivered messages do not mail
// the customer twice.
type Dedup interface {
	Seen(ctx context.Context, eventID string) (bool, error)
	Mark(ctx context.Context, eventID string) error
}

type RedisDedup struct {
	RDB     *redis.Client
	Service string
}

func (d *RedisDedup) Seen(ctx context.Context, eventID string) (bool, error) {
	return redisx.Exists(ctx, d.RDB, fmt.Sprintf(redisx.KeyDedup, d.Service, eventID))
}

func (d *RedisDedup) Mark(ctx context.Context, eventID string) error {
	return d.RDB.Set(ctx, fmt.Sprintf(redisx.KeyDedup, d.Service, eventID), "1", redisx.TTLDedup).Err()
}

// Service turns order.created events into confirmation emails.
type Service struct {
	Users UserLookup
	Mail  Mailer
	Dedup Dedup
	Log   *zap.Logger
}

// HandleOrderCreated is wired as the consumer handler.
func (s *Service) HandleOrderCreated(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != orders.EventOrderCreated {
		return nil
	}

	seen, err := s.Dedup.Seen(ctx, env.EventID)
	if err != nil {
		return err
	}
	if seen {
		return nil
	}

	p, err := kafkax.UnwrapPayload[orders.OrderCreatedPayload](env.Payload)
	if err != nil {
		return err
	}

	u, err := s.Users.GetByID(ctx, p.UserID)
	if err != nil {
		// user deleted since placement; drop the event
		s.Log.Warn("order for unknown user", zap.String("order_id", p.OrderID), zap.Error(err))
		return nil
	}

	if err := s.Mail.SendOrderConfirmation(u.Email, p.OrderID, p.TotalCents); err != nil {
		return err
	}
	if err := s.Dedup.Mark(ctx, env.EventID); err != nil {
		return err
	}
	s.Log.Info("confirmation sent",
		zap.String("order_id", p.OrderID),
		zap.String("user_id", p.UserID))
	return nil
}
