package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// PubSub Redis 发布/订阅客户端
type PubSub struct {
	client  *redis.Client
	channel string
}

// NewPubSub 创建 PubSub 实例
func NewPubSub(addr, password string, db int, channel string) (*PubSub, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// 测试连接
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewPubSubWithClient(client, channel), nil
}

// NewPubSubWithClient 使用已有客户端创建 PubSub（不做连通性检查）
func NewPubSubWithClient(client *redis.Client, channel string) *PubSub {
	return &PubSub{
		client:  client,
		channel: channel,
	}
}

// AnalysisNotification 分析完成通知消息
type AnalysisNotification struct {
	AnalysisID string `json:"analysis_id"`
	ActionType string `json:"action_type"`
	Status     string `json:"status"` // SUCCESS/FAILED
	Timestamp  int64  `json:"timestamp"`
}

// PublishAnalysisComplete 发布分析完成通知到配置的频道
func (p *PubSub) PublishAnalysisComplete(ctx context.Context, notification *AnalysisNotification) error {
	msgJSON, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	if err := p.client.Publish(ctx, p.channel, msgJSON).Err(); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	return nil
}

// Channel 返回通知频道名
func (p *PubSub) Channel() string {
	return p.channel
}

// Close 关闭 Redis 连接
func (p *PubSub) Close() error {
	return p.client.Close()
}
