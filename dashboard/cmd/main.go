package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/bradfitz/gomemcache/memcache"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"

	"github.com/anton-kapralov/graduate-pulse/dashboard/caching"
	"github.com/anton-kapralov/graduate-pulse/dashboard/http/rest"
	"github.com/anton-kapralov/graduate-pulse/dashboard/listing"
)

func newClickhouseConnection(host string, port int) driver.Conn {
	addr := fmt.Sprintf("%s:%d", host, port)
	log.Printf("Connecting to Clickhouse at %s", addr)
	ctx := context.Background()
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: "ges",
		},
	})
	if err != nil {
		log.Fatalf("Failed to connect to Clickhouse at %s: %s", addr, err)
	}
	if err := conn.Ping(ctx); err != nil {
		var exception *clickhouse.Exception
		if errors.As(err, &exception) {
			log.Printf("Exception [%d] %s \n%s\n", exception.Code, exception.Message, exception.StackTrace)
		}
		log.Fatalf("Failed to ping Clickhouse DB: %s", err)
	}
	return conn
}

func newCacheBackend(kind, redisAddr, memcacheAddr string) caching.Backend {
	switch kind {
	case "redis":
		log.Printf("Caching in Redis at %s", redisAddr)
		return caching.NewRedisBackend(redis.NewClient(&redis.Options{Addr: redisAddr}))
	case "memcache":
		log.Printf("Caching in memcache at %s", memcacheAddr)
		return caching.NewMemcacheBackend(memcache.New(memcacheAddr))
	case "none":
		return nil
	}
	log.Fatalf("Unknown cache backend %q", kind)
	return nil
}

type options struct {
	port       int
	clickhouse struct {
		host string
		port int
	}
	cache struct {
		backend string
		codec   string
		ttl     time.Duration
	}
	redis struct {
		addr string
	}
	memcache struct {
		addr string
	}
}

func main() {
	var opts options
	flag.IntVar(&opts.port, "port", 8082, "HTTP port")
	flag.StringVar(&opts.clickhouse.host, "clickhouse.host", "localhost", "Clickhouse host")
	flag.IntVar(&opts.clickhouse.port, "clickhouse.port", 9000, "Clickhouse port")
	flag.StringVar(&opts.cache.backend, "cache.backend", "redis", "Cache backend: redis, memcache or none")
	flag.StringVar(&opts.cache.codec, "cache.codec", "msgpack", "Cache codec: msgpack or json")
	flag.DurationVar(&opts.cache.ttl, "cache.ttl", 5*time.Minute, "Cache entry TTL")
	flag.StringVar(&opts.redis.addr, "redis.addr", "localhost:6379", "Redis address")
	flag.StringVar(&opts.memcache.addr, "memcache.addr", "localhost:11211", "Memcache address")
	flag.Parse()

	clickhouseConn := newClickhouseConnection(opts.clickhouse.host, opts.clickhouse.port)
	listingService := listing.NewService(clickhouseConn)
	if backend := newCacheBackend(opts.cache.backend, opts.redis.addr, opts.memcache.addr); backend != nil {
		codec, err := caching.NewCodec(opts.cache.codec)
		if err != nil {
			log.Fatalln(err)
		}
		listingService = caching.NewService(listingService, backend, codec, opts.cache.ttl)
	}
	listingService = listing.NewTracingService(listingService, otel.Tracer("github.com/anton-kapralov/graduate-pulse/dashboard"))

	restController := rest.NewController(listingService)

	router := gin.Default()
	rest.Register(router, restController)

	log.Fatalln(router.Run(fmt.Sprintf(":%d", opts.port)))
}
