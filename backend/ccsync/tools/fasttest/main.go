// fasttest 把测试用例中的告警直接交给 GetProcess 处理，不经过 lmstfy。
// -enqueue 模式改为写入 lmstfy 队列，由运行中的 worker 消费。
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/bitleak/lmstfy/client"
	"github.com/google/uuid"

	"coldchain/backend/common/model"
	"coldchain/backend/ccsync/internal/business"
	"coldchain/backend/ccsync/internal/domains"
	"coldchain/backend/ccsync/internal/domains/common"
	"coldchain/backend/ccsync/pkg/config"
	"coldchain/backend/ccsync/pkg/infra/redis"
	"coldchain/backend/ccsync/pkg/lmstfy"
	"coldchain/backend/ccsync/pkg/lmstfyx"
	"coldchain/backend/ccsync/pkg/logger"
)

var (
	configPath   = flag.String("config", "./config/worker.yaml", "配置文件路径")
	testcasePath = flag.String("testcase", "./tools/fasttest/testcase/alerts.json", "测试用例路径")
	dryRun       = flag.Bool("dry-run", false, "不连接 Redis，告警输出到标准输出")
	enqueue      = flag.Bool("enqueue", false, "写入 lmstfy 队列而不是本地处理")
)

// stdoutNotifier dry-run 模式的通知频道
type stdoutNotifier struct{}

func (stdoutNotifier) Publish(_ context.Context, channel string, payload []byte) (int64, error) {
	fmt.Printf("PUBLISH %s %s\n", channel, payload)
	return 0, nil
}

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	alerts, err := loadTestCases(*testcasePath)
	if err != nil {
		fmt.Printf("Failed to load test cases: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded %d alerts from %s\n", len(alerts), *testcasePath)

	if *enqueue {
		if err := enqueueAlerts(cfg, alerts); err != nil {
			fmt.Printf("Enqueue failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	var notifier business.Notifier = stdoutNotifier{}
	if !*dryRun {
		pubsub, err := redis.NewPubSub(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			fmt.Printf("Failed to connect redis: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = pubsub.Close() }()
		notifier = pubsub
	}

	log := logger.NewNop()
	proc := domains.GetProcess(log, &common.Deps{
		AlertService: business.NewAlertService(notifier, cfg.Notify.Topic, log),
	})

	failed := 0
	for i, a := range alerts {
		data, err := json.Marshal(newJob(a))
		if err != nil {
			fmt.Printf("[%d] marshal failed: %v\n", i, err)
			failed++
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		resp := proc(ctx, &client.Job{ID: fmt.Sprintf("fasttest-%d", i), Data: data})
		cancel()

		fmt.Printf("[%d] %s -> %s %s\n", i, a.ShipmentID, resp.Action, resp.Data)
		if resp.Action != lmstfyx.JobRespStatusSuccess {
			failed++
		}
	}

	fmt.Printf("Done: %d ok, %d failed\n", len(alerts)-failed, failed)
	if failed > 0 {
		os.Exit(1)
	}
}

func loadTestCases(path string) ([]model.AlertNotification, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var alerts []model.AlertNotification
	if err := json.Unmarshal(data, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

func newJob(a model.AlertNotification) model.ShipmentAlertJob {
	return model.ShipmentAlertJob{
		Payload: model.ShipmentAlertPayload{
			Data: model.ShipmentAlertData{
				RequestID:  uuid.New().String(),
				OrgID:      "0",
				ActionType: model.ActionTypeShipmentAlert,
				ID:         a.ShipmentID,
				Data:       a,
			},
		},
	}
}

func enqueueAlerts(cfg *config.Config, alerts []model.AlertNotification) error {
	if len(cfg.Workers) == 0 {
		return fmt.Errorf("no worker queue configured")
	}
	queue := cfg.Workers[0].QueueName
	cli := lmstfy.NewClient(cfg.Lmstfy.Host, cfg.Lmstfy.Port, cfg.Lmstfy.Namespace, cfg.Lmstfy.Token)

	for _, a := range alerts {
		data, err := json.Marshal(newJob(a))
		if err != nil {
			return err
		}
		jobID, err := cli.Publish(queue, data, uint32((24 * time.Hour).Seconds()), 0)
		if err != nil {
			return err
		}
		fmt.Printf("%s -> %s/%s\n", a.ShipmentID, queue, jobID)
	}
	return nil
}
