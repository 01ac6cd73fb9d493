package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// Redis stores each collection as a hash: HSET records:<collection> <id> <json>.
type Redis struct {
	client *redis.Client

	cbMu      sync.Mutex
	callbacks map[int]ChangeFunc
	nextCB    int
}

type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

func NewRedis(opts RedisOptions) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,

		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	fmt.Printf("[DB] Redis connected at %s\n", opts.Addr)
	return &Redis{
		client:    client,
		callbacks: make(map[int]ChangeFunc),
	}, nil
}

func redisKey(collection string) string {
	return "records:" + collection
}

func (r *Redis) Get(ctx context.Context, collection, id string) ([]byte, bool, error) {
	data, err := r.client.HGet(ctx, redisKey(collection), id).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("hget %s/%s: %w", collection, id, err)
	}
	return data, true, nil
}

func (r *Redis) Set(ctx context.Context, collection, id string, data []byte) error {
	if err := r.client.HSet(ctx, redisKey(collection), id, data).Err(); err != nil {
		return fmt.Errorf("hset %s/%s: %w", collection, id, err)
	}
	r.notify(collection, id, data)
	return nil
}

func (r *Redis) Delete(ctx context.Context, collection, id string) error {
	if err := r.client.HDel(ctx, redisKey(collection), id).Err(); err != nil {
		return fmt.Errorf("hdel %s/%s: %w", collection, id, err)
	}
	r.notify(collection, id, nil)
	return nil
}

func (r *Redis) Keys(ctx context.Context, collection string) ([]string, error) {
	keys, err := r.client.HKeys(ctx, redisKey(collection)).Result()
	if err != nil {
		return nil, fmt.Errorf("hkeys %s: %w", collection, err)
	}
	return keys, nil
}

func (r *Redis) OnChange(fn ChangeFunc) func() {
	r.cbMu.Lock()
	defer r.cbMu.Unlock()

	id := r.nextCB
	r.nextCB++
	r.callbacks[id] = fn
	return func() {
		r.cbMu.Lock()
		defer r.cbMu.Unlock()
		delete(r.callbacks, id)
	}
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) notify(collection, id string, data []byte) {
	r.cbMu.Lock()
	fns := make([]ChangeFunc, 0, len(r.callbacks))
	for _, fn := range r.callbacks {
		fns = append(fns, fn)
	}
	r.cbMu.Unlock()

	for _, fn := range fns {
		func() {
			defer func() {
				if p := recover(); p != nil {
					fmt.Printf("[STORE] onChange callback panic: %v\n", p)
				}
			}()
			fn(collection, id, data)
		}()
	}
}
