package collecting

import (
	"github.com/IBM/sarama"

	"github.com/anton-kapralov/graduate-pulse/survey"
)

type Service interface {
	Save(record survey.Record) error
	SaveAll(records []survey.Record) error
}

type service struct {
	kafkaProducer sarama.AsyncProducer
	topic         string
}

func NewService(kafkaProducer sarama.AsyncProducer, topic string) Service {
	return &service{
		kafkaProducer: kafkaProducer,
		topic:         topic,
	}
}

func (c *service) Save(record survey.Record) error {
	return c.SaveAll([]survey.Record{record})
}

// SaveAll encodes every record before publishing any of them, so a bad record
// rejects the whole batch.
func (c *service) SaveAll(records []survey.Record) error {
	messages := make([]*sarama.ProducerMessage, len(records))
	for i, record := range records {
		if err := record.Validate(); err != nil {
			return err
		}
		bytes, err := survey.Marshal(record)
		if err != nil {
			return err
		}
		messages[i] = &sarama.ProducerMessage{
			Topic: c.topic,
			Key:   sarama.StringEncoder(record.University),
			Value: sarama.ByteEncoder(bytes),
		}
	}
	for _, msg := range messages {
		c.kafkaProducer.Input() <- msg
	}
	return nil
}
