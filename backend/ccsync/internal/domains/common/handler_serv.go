package common

import (
	"context"

	"coldchain/backend/ccsync/internal/business"
	"coldchain/backend/ccsync/internal/domains/common/job"
	"coldchain/backend/ccsync/internal/domains/common/response"
)

// Deps Handler 依赖的业务服务
type Deps struct {
	AlertService *business.AlertService
}

// HandlerServProc Handler 构造函数类型，payload 为 job.Payload.Data.Data
type HandlerServProc func(ctx context.Context, meta *job.Meta, payload interface{}, deps *Deps) (HandlerServ, error)

// HandlerServ Handler 接口
type HandlerServ interface {
	GetProcess() *response.Response
}
