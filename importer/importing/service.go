package importing

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/IBM/sarama"

	"github.com/anton-kapralov/graduate-pulse/survey"
)

// Store persists a batch of survey records.
type Store interface {
	SaveRecords(ctx context.Context, records []survey.Record) error
}

type Service interface {
	Start(ctx context.Context, wg *sync.WaitGroup)
}

type service struct {
	kafka   sarama.ConsumerGroup
	topics  []string
	session sarama.ConsumerGroupSession
	store   Store

	mx    sync.Mutex
	queue []*sarama.ConsumerMessage
}

func NewService(kafka sarama.ConsumerGroup, topic string, store Store) Service {
	return &service{
		kafka:  kafka,
		topics: []string{topic},
		store:  store,
	}
}

func (s *service) Start(ctx context.Context, wg *sync.WaitGroup) {
	go s.loopConsume(ctx, wg)
	go s.loopFlushing(ctx)
}

func (s *service) loopConsume(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()
	for {
		// Consume returns on every server-side rebalance; the session has to
		// be recreated to pick up the new claims.
		if err := s.kafka.Consume(ctx, s.topics, s); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return
			}
			log.Panicf("Error from consumer: %v", err)
		}
		if ctx.Err() != nil {
			return
		}
	}
}

func (s *service) Setup(session sarama.ConsumerGroupSession) error {
	s.mx.Lock()
	defer s.mx.Unlock()
	s.session = session
	return nil
}

func (s *service) Cleanup(_ sarama.ConsumerGroupSession) error {
	s.flushRecords(context.Background())
	return nil
}

func (s *service) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				log.Printf("message channel was closed")
				return nil
			}
			s.enqueueMessage(message)
		case <-session.Context().Done():
			return nil
		}
	}
}

func (s *service) enqueueMessage(msg *sarama.ConsumerMessage) {
	s.mx.Lock()
	defer s.mx.Unlock()
	s.queue = append(s.queue, msg)
}

func (s *service) loopFlushing(ctx context.Context) {
	t := time.NewTicker(1 * time.Second)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.flushRecords(ctx)
		}
	}
}

// flushRecords writes the queued records and marks their offsets. Messages
// that do not decode to a valid record are logged and skipped. On a store
// failure the queue is kept and retried on the next tick.
func (s *service) flushRecords(ctx context.Context) {
	s.mx.Lock()
	defer s.mx.Unlock()
	if len(s.queue) == 0 {
		return
	}
	log.Printf("Flushing %d records", len(s.queue))
	records := make([]survey.Record, 0, len(s.queue))
	for _, message := range s.queue {
		record, err := survey.Unmarshal(message.Value)
		if err != nil {
			log.Printf("Skipping message at %s/%d offset %d: %s",
				message.Topic, message.Partition, message.Offset, err)
			continue
		}
		records = append(records, record)
	}
	if len(records) > 0 {
		if err := s.store.SaveRecords(ctx, records); err != nil {
			log.Println(err)
			return
		}
	}
	if s.session != nil {
		for _, message := range s.queue {
			s.session.MarkMessage(message, "")
		}
	}
	s.queue = s.queue[:0]
}
