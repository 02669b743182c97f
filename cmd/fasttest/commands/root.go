package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"qms/qcsync/pkg/logger"
)

var (
	testcasePath string
	logLevel     string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "fasttest",
	Short: "FastTest - 不依赖队列的质量分析快速测试工具",
	Long: `fasttest 读取测试用例 JSON（[{name, action_type, data, expect}]），
逐条构造标准 Job 消息交给 Worker 的处理函数执行，回调写入内存并打印结果。`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.NewNopLogger()
		if verbose {
			zapLogger, err := logger.NewZapLogger(logLevel)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer zapLogger.Sync()
			log = zapLogger
		}

		cases, err := loadTestCases(testcasePath)
		if err != nil {
			return err
		}

		summary := runCases(cmd.Context(), cases, log, cmd.OutOrStdout())
		if summary.Failed > 0 {
			return fmt.Errorf("%d of %d test cases failed", summary.Failed, summary.Total)
		}
		return nil
	},
}

// Execute 执行根命令
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Flags().StringVarP(&testcasePath, "testcase", "t", "./testdata/testcase.json", "测试用例路径")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "debug", "日志级别（配合 --verbose）")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "输出 Worker 日志")
}

// HandleError 打印错误并退出
func HandleError(err error, msg string) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
		os.Exit(1)
	}
}
