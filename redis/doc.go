// Package redis wraps go-redis with lecturekit logging, configuration and
// component lifecycle. cache.NewRedisStore builds the result cache on top
// of Client.
//
//	comp := redis.NewComponent(cfg.Redis, log)
//	if err := comp.Start(ctx); err != nil { ... }
//	store := cache.NewRedisStore(comp.Client())
package redis
