package collecting

import (
	"errors"
	"testing"

	"github.com/IBM/sarama/mocks"
	"github.com/longbridgeapp/assert"

	"github.com/anton-kapralov/graduate-pulse/survey"
)

func TestService_SaveAll(t *testing.T) {
	config := mocks.NewTestConfig()
	config.Producer.Return.Successes = true
	producer := mocks.NewAsyncProducer(t, config)
	producer.ExpectInputAndSucceed()
	producer.ExpectInputAndSucceed()

	svc := NewService(producer, "graduate-survey")
	err := svc.SaveAll([]survey.Record{
		{Year: 2020, University: "NUS"},
		{Year: 2021, University: "SMU"},
	})
	assert.Nil(t, err)

	var got []survey.Record
	for i := 0; i < 2; i++ {
		msg := <-producer.Successes()
		assert.Equal(t, "graduate-survey", msg.Topic)
		bytes, err := msg.Value.Encode()
		assert.Nil(t, err)
		record, err := survey.Unmarshal(bytes)
		assert.Nil(t, err)
		key, _ := msg.Key.Encode()
		assert.Equal(t, record.University, string(key))
		got = append(got, record)
	}
	assert.Equal(t, 2020, got[0].Year)
	assert.Equal(t, "SMU", got[1].University)
	assert.Nil(t, producer.Close())
}

func TestService_RejectsInvalidBatch(t *testing.T) {
	producer := mocks.NewAsyncProducer(t, mocks.NewTestConfig())
	svc := NewService(producer, "graduate-survey")

	err := svc.SaveAll([]survey.Record{
		{Year: 2020, University: "NUS"},
		{Year: 2020},
	})
	assert.True(t, errors.Is(err, survey.ErrInvalidRecord))
	assert.Nil(t, producer.Close())
}
