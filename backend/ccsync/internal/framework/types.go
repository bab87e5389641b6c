package framework

import "time"

// Message 消息结构（框架内部流转）
type Message struct {
	ID    string // lmstfy job ID
	Queue string // 来源队列，ACK 时使用
	Data  []byte // 原始 Job 数据
}

// SubscriberConfig 拉取端配置
type SubscriberConfig struct {
	QueueName    string
	Concurrency  int           // 并发拉取协程数
	Timeout      time.Duration // 单次拉取的阻塞时长
	TTR          time.Duration // 未 ACK 的消息经过 TTR 后重新投递
	Rate         time.Duration // 两次拉取之间的间隔
	ErrorBackoff time.Duration
}

// ProcessorConfig 处理端配置
type ProcessorConfig struct {
	Concurrency int
	BufferSize  int           // inputChan 缓冲区大小
	Timeout     time.Duration // 单个消息处理超时
}
