package framework

import (
	"context"
	"fmt"
)

// PreProcessor 函数链处理器（校验 → 分析 → 回调）
type PreProcessor struct {
	processFuncs []ProcessorFunc
}

// NewPreProcessor 创建函数链处理器
func NewPreProcessor(processFuncs []ProcessorFunc) *PreProcessor {
	return &PreProcessor{
		processFuncs: processFuncs,
	}
}

// Run 执行函数链
// 任一函数返回 error 或处理超时则立即停止
func (p *PreProcessor) Run(ctx context.Context) error {
	for i, processFunc := range p.processFuncs {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("processor[%d] skipped: %w", i, err)
		}
		if err := processFunc(ctx); err != nil {
			return fmt.Errorf("processor[%d] failed: %w", i, err)
		}
	}
	return nil
}
