package lmstfy

import (
	"fmt"
	"time"

	"github.com/bitleak/lmstfy/client"

	"qms/qcsync/internal/framework"
)

// DefaultTries 发布消息的最大投递次数
const DefaultTries = 3

// Client Lmstfy 客户端封装
type Client struct {
	cli       *client.LmstfyClient
	namespace string
}

// NewClient 创建 Lmstfy 客户端
func NewClient(host string, port int, namespace string, token string) (*Client, error) {
	if host == "" {
		return nil, fmt.Errorf("lmstfy host is empty")
	}
	cli := client.NewLmstfyClient(host, port, namespace, token)
	return &Client{
		cli:       cli,
		namespace: namespace,
	}, nil
}

// Consume 消费消息（实现 MessageSource 接口）
func (c *Client) Consume(queue string, timeout time.Duration, ttr time.Duration) (*framework.Message, error) {
	timeoutSec := uint32(timeout.Seconds())
	ttrSec := uint32(ttr.Seconds())

	job, err := c.cli.Consume(queue, timeoutSec, ttrSec)
	if err != nil {
		return nil, fmt.Errorf("lmstfy consume failed: %w", err)
	}

	// 超时未拉到消息
	if job == nil {
		return nil, nil
	}

	return &framework.Message{
		ID:    job.ID,
		Queue: job.Queue,
		Data:  job.Data,
		Extra: map[string]interface{}{"namespace": c.namespace},
	}, nil
}

// Ack 确认消息（实现 MessageSource 接口）
func (c *Client) Ack(queue string, jobID string) error {
	if err := c.cli.Ack(queue, jobID); err != nil {
		return fmt.Errorf("lmstfy ack failed: %w", err)
	}
	return nil
}

// Publish 发布消息（回调、死信转投）
// ttl=0 表示永不过期，delay=0 表示立即可用
func (c *Client) Publish(queue string, data []byte, ttl, delay uint32) error {
	if _, err := c.cli.Publish(queue, data, ttl, DefaultTries, delay); err != nil {
		return fmt.Errorf("lmstfy publish failed: %w", err)
	}
	return nil
}
