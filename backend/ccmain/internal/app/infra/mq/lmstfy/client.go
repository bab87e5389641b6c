package lmstfy

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/bitleak/lmstfy/client"
)

const publishTries = 3

// Client Lmstfy 客户端封装（告警外发队列，仅发布）
type Client struct {
	cli       *client.LmstfyClient
	namespace string
}

// NewClient 创建 Lmstfy 客户端
func NewClient(host string, port int, namespace, token string) *Client {
	return &Client{
		cli:       client.NewLmstfyClient(host, port, namespace, token),
		namespace: namespace,
	}
}

// Publish 序列化后发布到队列，返回 job ID
// ttl: 消息存活时间，投递失败的消息最多尝试 3 次
func (c *Client) Publish(queue string, data interface{}, ttl time.Duration) (string, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("marshal job failed: %w", err)
	}

	jobID, err := c.cli.Publish(queue, payload, uint32(ttl.Seconds()), publishTries, 0)
	if err != nil {
		return "", fmt.Errorf("lmstfy publish failed: %w", err)
	}
	return jobID, nil
}
