// xaopctl 检查自动代理的声明式配置。
//
// 用法:
//
//	xaopctl <命令> [命令参数]
//
// 命令:
//
//	validate <file>                 加载并校验配置文件
//	match --config <file> --type <pkg.Type> --method <Name>
//	                                列出静态命中该方法的切点
//
// 退出码:
//
//	0: 成功（match 命令: 至少一个切点命中）
//	1: 配置无效或加载失败（match 命令: 没有切点命中）
//	2: 参数错误（缺少参数、未知 flag 等）
//
// 示例:
//
//	xaopctl validate /etc/app/aop.yaml
//	xaopctl match -c aop.yaml -t github.com/acme/shop.OrderService -m GetOrder --context --error
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

// 版本信息，可通过 -ldflags "-X main.Version=..." 注入。
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func createApp(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "xaopctl",
		Usage:     "自动代理配置检查工具",
		Version:   fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		Writer:    stdout,
		ErrWriter: stderr,
		Commands: []*cli.Command{
			createValidateCommand(),
			createMatchCommand(),
		},
		OnUsageError: onUsageError,
		// 退出码统一由 run 映射，不让框架直接退出进程。
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	err := createApp(stdout, stderr).Run(ctx, args)
	if err == nil {
		return 0
	}
	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	var usageErr *usageError
	if errors.As(err, &usageErr) {
		fmt.Fprintf(stderr, "参数错误: %v\n", usageErr)
		return 2
	}
	fmt.Fprintf(stderr, "错误: %v\n", err)
	return 1
}
