package domains

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bitleak/lmstfy/client"
	"github.com/google/uuid"

	"coldchain/backend/ccsync/internal/domains/common"
	"coldchain/backend/ccsync/internal/domains/common/job"
	"coldchain/backend/ccsync/internal/domains/common/response"
	"coldchain/backend/ccsync/pkg/lmstfyx"
	"coldchain/backend/ccsync/pkg/logger"
)

// GetProcess 返回核心处理函数（注入到 Processor）
func GetProcess(log logger.Logger, deps *common.Deps) lmstfyx.Proc {
	return func(ctx context.Context, lmstfyJob *client.Job) *lmstfyx.JobResp {
		startTime := time.Now()

		// 1. 解析 Job，格式错误的消息不会被修复，直接丢弃
		standardJob, meta, err := parseJob(lmstfyJob)
		if err != nil {
			log.Errorf(ctx, "[GetProcess] parseJob failed: %v", err)
			return bury(err)
		}

		ctx = logger.WithTraceID(ctx, meta.RequestID)
		ctx = logger.WithActionType(ctx, meta.ActionType)

		log.Infof(ctx, "[GetProcess] Processing job: id=%s", meta.ID)

		// 2. 路由
		handlerFunc, ok := HandlerMap[meta.ActionType]
		if !ok {
			log.Errorf(ctx, "[GetProcess] handler not found for action_type: %s", meta.ActionType)
			return bury(fmt.Errorf("unknown action_type %q", meta.ActionType))
		}

		// 3. 调用 Handler（捕获 panic）
		var resp *lmstfyx.JobResp
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Errorf(ctx, "[GetProcess] handler panic: %v", r)
					resp = bury(fmt.Errorf("handler panic: %v", r))
				}
			}()

			handler, err := handlerFunc(ctx, meta, standardJob.Payload.Data.Data, deps)
			if err != nil {
				log.Errorf(ctx, "[GetProcess] handler creation failed: %v", err)
				resp = bury(err)
				return
			}

			resp = doJobReport(ctx, handler.GetProcess(), log)
		}()

		log.Infof(ctx, "[GetProcess] Processing complete: action=%s, duration=%v", resp.Action, time.Since(startTime))
		return resp
	}
}

func parseJob(lmstfyJob *client.Job) (*job.Job, *job.Meta, error) {
	var standardJob job.Job
	if err := json.Unmarshal(lmstfyJob.Data, &standardJob); err != nil {
		return nil, nil, fmt.Errorf("json unmarshal failed: %w", err)
	}
	if standardJob.Payload == nil || standardJob.Payload.Data == nil {
		return nil, nil, fmt.Errorf("invalid job structure: payload.data is nil")
	}

	data := standardJob.Payload.Data
	meta := &job.Meta{
		RequestID:  data.RequestID,
		OrgID:      data.OrgID,
		ActionType: data.ActionType,
		ID:         data.ID,
	}
	if meta.RequestID == "" {
		meta.RequestID = uuid.New().String()
	}
	return &standardJob, meta, nil
}

// doJobReport 根据 Response 决定 ACK / Release / Bury
func doJobReport(ctx context.Context, resp *response.Response, log logger.Logger) *lmstfyx.JobResp {
	data, err := json.Marshal(resp)
	if err != nil {
		log.Errorf(ctx, "[doJobReport] marshal response failed: %v", err)
		return bury(err)
	}

	switch {
	case resp.Error == nil:
		return &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusSuccess, Data: data}
	case resp.Retryable():
		log.Warnf(ctx, "[doJobReport] retryable failure: %s", resp.Error.Message)
		return &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusRelease, Data: data}
	default:
		return &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusBury, Data: data}
	}
}

func bury(err error) *lmstfyx.JobResp {
	return &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusBury, Data: []byte(err.Error())}
}
