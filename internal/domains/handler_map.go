package domains

import (
	"qms/qcsync/internal/domains/common"
	"qms/qcsync/internal/domains/handlers/analysis"
	"qms/qcsync/internal/model"
)

// HandlerMap 路由表（ActionType → Handler 映射）
var HandlerMap = map[string]common.HandlerServProc{
	model.ActionTypeFMEAAssess: analysis.NewFMEAHandler,
	model.ActionTypeSPCAnalyze: analysis.NewSPCHandler,
}
