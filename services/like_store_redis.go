package services

import (
	"context"
	"fmt"

	"github.com/go-redis/redis"
)

// toggleScript flips membership of ARGV[1] in the like set KEYS[1] and keeps
// the ranking zset KEYS[2] in step. Returns {liked, count}.
var toggleScript = redis.NewScript(`
if redis.call('SISMEMBER', KEYS[1], ARGV[1]) == 1 then
	redis.call('SREM', KEYS[1], ARGV[1])
	local score = tonumber(redis.call('ZINCRBY', KEYS[2], -1, ARGV[2]))
	if score <= 0 then
		redis.call('ZREM', KEYS[2], ARGV[2])
	end
	return {0, redis.call('SCARD', KEYS[1])}
end
redis.call('SADD', KEYS[1], ARGV[1])
redis.call('ZINCRBY', KEYS[2], 1, ARGV[2])
return {1, redis.call('SCARD', KEYS[1])}
`)

// RedisLikeStore keeps each subject's likers in a set and a per-kind ranking
// zset, e.g. likes:post:{slug} and rank:post:likes. go-redis v6 has no
// context support, so every method checks ctx before its round trip.
type RedisLikeStore struct {
	client *redis.Client
}

func NewRedisLikeStore(client *redis.Client) *RedisLikeStore {
	return &RedisLikeStore{client: client}
}

func likeSetKey(s Subject) string { return "likes:" + string(s.Kind) + ":" + s.Key }

func rankKey(kind LikeKind) string { return "rank:" + string(kind) + ":likes" }

func (s *RedisLikeStore) Toggle(ctx context.Context, subject Subject, identity string) (LikeState, error) {
	if err := ctx.Err(); err != nil {
		return LikeState{}, err
	}

	res, err := toggleScript.Run(s.client, []string{likeSetKey(subject), rankKey(subject.Kind)}, identity, subject.Key).Result()
	if err != nil {
		return LikeState{}, storeErr("toggle like", err)
	}

	vals, ok := res.([]interface{})
	if !ok || len(vals) != 2 {
		return LikeState{}, storeErr("toggle like", fmt.Errorf("unexpected script reply %v", res))
	}
	liked, _ := vals[0].(int64)
	count, _ := vals[1].(int64)
	return LikeState{Count: count, Liked: liked == 1}, nil
}

func (s *RedisLikeStore) Count(ctx context.Context, subject Subject, identity string) (LikeState, error) {
	states, err := s.CountMany(ctx, subject.Kind, []string{subject.Key}, identity)
	if err != nil {
		return LikeState{}, err
	}
	return states[subject.Key], nil
}

func (s *RedisLikeStore) CountMany(ctx context.Context, kind LikeKind, keys []string, identity string) (map[string]LikeState, error) {
	out := make(map[string]LikeState, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pipe := s.client.Pipeline()
	cards := make([]*redis.IntCmd, len(keys))
	members := make([]*redis.BoolCmd, len(keys))
	for i, k := range keys {
		key := likeSetKey(Subject{Kind: kind, Key: k})
		cards[i] = pipe.SCard(key)
		members[i] = pipe.SIsMember(key, identity)
	}
	if _, err := pipe.Exec(); err != nil {
		return nil, storeErr("count likes", err)
	}

	for i, k := range keys {
		out[k] = LikeState{Count: cards[i].Val(), Liked: members[i].Val()}
	}
	return out, nil
}

func (s *RedisLikeStore) Purge(ctx context.Context, subject Subject) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(likeSetKey(subject))
	pipe.ZRem(rankKey(subject.Kind), subject.Key)
	if _, err := pipe.Exec(); err != nil {
		return storeErr("purge likes", err)
	}
	return nil
}

func (s *RedisLikeStore) Top(ctx context.Context, kind LikeKind, n int) ([]RankEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	zres, err := s.client.ZRevRangeWithScores(rankKey(kind), 0, int64(n-1)).Result()
	if err != nil && err != redis.Nil {
		return nil, storeErr("rank likes", err)
	}

	list := make([]RankEntry, 0, len(zres))
	for idx, z := range zres {
		member, _ := z.Member.(string)
		list = append(list, RankEntry{Key: member, Likes: int64(z.Score), Rank: idx + 1})
	}
	return list, nil
}
