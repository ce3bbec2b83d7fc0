package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"embroidery_shop/internal/domain/cart/model"

	"github.com/redis/go-redis/v9"
)

var ErrItemNotFound = errors.New("cart item not found")

// 购物车在 Redis 中按用户一个 Hash，field 是 design_id
const cartKeyPrefix = "embroidery-cart:"

// 未登录前残留的购物车不长期保留
const cartTTL = 30 * 24 * time.Hour

// CartStore 购物车存储接口
type CartStore interface {
	Add(ctx context.Context, userID string, item model.CartItem) error
	UpdateQuantity(ctx context.Context, userID, designID string, quantity int) error
	Remove(ctx context.Context, userID, designID string) error
	Items(ctx context.Context, userID string) ([]model.CartItem, error)
	Clear(ctx context.Context, userID string) error
}

// redisCartStore Redis 实现
type redisCartStore struct {
	client *redis.Client
}

// NewCartStore 创建购物车存储
func NewCartStore(client *redis.Client) CartStore {
	return &redisCartStore{client: client}
}

func cartKey(userID string) string {
	return fmt.Sprintf("%s%s", cartKeyPrefix, userID)
}

// mergeItem 重复加入同一图样时数量 +1，而不是覆盖
func mergeItem(existing *model.CartItem, incoming model.CartItem) model.CartItem {
	if existing == nil {
		if incoming.Quantity <= 0 {
			incoming.Quantity = 1
		}
		return incoming
	}
	merged := *existing
	merged.Quantity++
	return merged
}

// normalizeQuantity 数量下限为 1
func normalizeQuantity(quantity int) int {
	if quantity < 1 {
		return 1
	}
	return quantity
}

// Add 加入购物车，已存在的图样数量 +1
func (s *redisCartStore) Add(ctx context.Context, userID string, item model.CartItem) error {
	key := cartKey(userID)

	var existing *model.CartItem
	raw, err := s.client.HGet(ctx, key, item.DesignID).Result()
	if err == nil {
		var current model.CartItem
		if err := json.Unmarshal([]byte(raw), &current); err != nil {
			return err
		}
		existing = &current
	} else if !errors.Is(err, redis.Nil) {
		return err
	}

	merged := mergeItem(existing, item)
	data, err := json.Marshal(merged)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, item.DesignID, data)
	pipe.Expire(ctx, key, cartTTL)
	_, err = pipe.Exec(ctx)
	return err
}

// UpdateQuantity 直接设置数量，下限为 1
func (s *redisCartStore) UpdateQuantity(ctx context.Context, userID, designID string, quantity int) error {
	key := cartKey(userID)

	raw, err := s.client.HGet(ctx, key, designID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrItemNotFound
		}
		return err
	}

	var item model.CartItem
	if err := json.Unmarshal([]byte(raw), &item); err != nil {
		return err
	}
	item.Quantity = normalizeQuantity(quantity)

	data, err := json.Marshal(item)
	if err != nil {
		return err
	}
	return s.client.HSet(ctx, key, designID, data).Err()
}

// Remove 移除条目
func (s *redisCartStore) Remove(ctx context.Context, userID, designID string) error {
	removed, err := s.client.HDel(ctx, cartKey(userID), designID).Result()
	if err != nil {
		return err
	}
	if removed == 0 {
		return ErrItemNotFound
	}
	return nil
}

// Items 读取整个购物车
func (s *redisCartStore) Items(ctx context.Context, userID string) ([]model.CartItem, error) {
	raw, err := s.client.HGetAll(ctx, cartKey(userID)).Result()
	if err != nil {
		return nil, err
	}

	items := make([]model.CartItem, 0, len(raw))
	for _, v := range raw {
		var item model.CartItem
		if err := json.Unmarshal([]byte(v), &item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// Clear 清空购物车（下单成功后调用）
func (s *redisCartStore) Clear(ctx context.Context, userID string) error {
	return s.client.Del(ctx, cartKey(userID)).Err()
}
