package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/IBM/sarama"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/anton-kapralov/graduate-pulse/collector/collecting"
	"github.com/anton-kapralov/graduate-pulse/collector/http/rest"
	"github.com/anton-kapralov/graduate-pulse/collector/ratelimit"
)

func newKafkaProducer(host string, port int) sarama.AsyncProducer {
	addr := fmt.Sprintf("%s:%d", host, port)
	log.Printf("Connecting to Kafka at %s", addr)
	config := sarama.NewConfig()
	config.Producer.Idempotent = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Partitioner = sarama.NewHashPartitioner
	config.Net.MaxOpenRequests = 1
	kafkaProducer, err := sarama.NewAsyncProducer([]string{addr}, config)
	if err != nil {
		log.Fatalf("Failed to create a Kafka producer: %s", err)
	}
	go func() {
		for err := range kafkaProducer.Errors() {
			log.Printf("Failed to publish survey record: %s", err)
		}
	}()
	return kafkaProducer
}

type options struct {
	port  int
	topic string
	kafka struct {
		host string
		port int
	}
	redis struct {
		addr string
	}
	rateLimit struct {
		window time.Duration
		limit  int
	}
}

func main() {
	var opts options
	flag.IntVar(&opts.port, "port", 8081, "HTTP port")
	flag.StringVar(&opts.topic, "topic", "graduate-survey", "Kafka topic for survey records")
	flag.StringVar(&opts.kafka.host, "kafka.host", "localhost", "Kafka host")
	flag.IntVar(&opts.kafka.port, "kafka.port", 9092, "Kafka port")
	flag.StringVar(&opts.redis.addr, "redis.addr", "localhost:6379", "Redis address")
	flag.DurationVar(&opts.rateLimit.window, "ratelimit.window", time.Minute, "Rate limit window")
	flag.IntVar(&opts.rateLimit.limit, "ratelimit.limit", 60, "Requests per window and client; 0 disables")
	flag.Parse()

	kafkaProducer := newKafkaProducer(opts.kafka.host, opts.kafka.port)
	defer kafkaProducer.AsyncClose()
	collector := collecting.NewService(kafkaProducer, opts.topic)
	restController := rest.NewController(collector)

	redisClient := redis.NewClient(&redis.Options{Addr: opts.redis.addr})
	limiter := ratelimit.NewRateLimiter(redisClient, opts.rateLimit.window, opts.rateLimit.limit)

	router := gin.Default()
	api := router.Group("/api", ratelimit.Middleware(limiter, "collector"))
	api.POST("/records", restController.SaveRecord)
	api.POST("/records/csv", restController.SaveCSV)

	log.Fatalln(router.Run(fmt.Sprintf(":%d", opts.port)))
}
