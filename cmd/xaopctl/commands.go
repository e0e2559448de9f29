package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xaop/pkg/aop/xpointcut"
	"github.com/omeyang/xaop/pkg/config/xaopconf"
)

// exitError 表示命令已完成输出，只需要设置退出码。
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// usageError 表示命令行参数错误。
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }

func (e *usageError) Unwrap() error { return e.err }

func usageErrorf(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

func onUsageError(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return &usageError{err: err}
}

func createValidateCommand() *cli.Command {
	return &cli.Command{
		Name:         "validate",
		Aliases:      []string{"v"},
		Usage:        "加载并校验配置文件",
		ArgsUsage:    "<file>",
		OnUsageError: onUsageError,
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return usageErrorf("validate 需要且只需要一个文件参数")
			}
			return cmdValidate(cmd.Root().Writer, cmd.Args().First())
		},
	}
}

func createMatchCommand() *cli.Command {
	return &cli.Command{
		Name:         "match",
		Aliases:      []string{"m"},
		Usage:        "列出静态命中某个方法的切点",
		OnUsageError: onUsageError,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "配置文件路径"},
			&cli.StringFlag{Name: "type", Aliases: []string{"t"}, Usage: "目标类型全名，如 github.com/acme/shop.OrderService"},
			&cli.StringFlag{Name: "method", Aliases: []string{"m"}, Usage: "方法名"},
			&cli.BoolFlag{Name: "field", Usage: "方法是函数字段"},
			&cli.IntFlag{Name: "num-in", Usage: "参数个数"},
			&cli.IntFlag{Name: "num-out", Usage: "返回值个数"},
			&cli.BoolFlag{Name: "context", Usage: "第一个参数是 context.Context"},
			&cli.BoolFlag{Name: "error", Usage: "最后一个返回值是 error"},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			path, typeName, method := cmd.String("config"), cmd.String("type"), cmd.String("method")
			if path == "" || typeName == "" || method == "" {
				return usageErrorf("match 需要 --config、--type 和 --method")
			}
			pkgPath, name := splitTypeName(typeName)
			d := xpointcut.Descriptor{
				TypeName:     name,
				PkgPath:      pkgPath,
				Method:       method,
				Field:        cmd.Bool("field"),
				NumIn:        cmd.Int("num-in"),
				NumOut:       cmd.Int("num-out"),
				HasContext:   cmd.Bool("context"),
				ReturnsError: cmd.Bool("error"),
			}
			return cmdMatch(cmd.Root().Writer, path, d)
		},
	}
}

func cmdValidate(w io.Writer, path string) error {
	s, err := xaopconf.Load(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s: ok (%d pointcuts)\n", path, len(s.Pointcuts))
	return nil
}

func cmdMatch(w io.Writer, path string, d xpointcut.Descriptor) error {
	s, err := xaopconf.Load(path)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "POINTCUT\tADVICE\tRESULT")
	hits := 0
	for _, p := range s.Pointcuts {
		matched, dynamic, err := p.MatchDescriptor(d)
		result := "no"
		switch {
		case err != nil:
			result = "error: " + err.Error()
		case dynamic:
			result = "at call time"
			hits++
		case matched:
			result = "yes"
			hits++
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Name, p.Advice, result)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if hits == 0 {
		fmt.Fprintf(w, "no pointcut matches %s\n", d.FullName())
		return &exitError{code: 1}
	}
	return nil
}

// splitTypeName 把 "github.com/acme/shop.OrderService" 拆成包路径和类型名。
func splitTypeName(full string) (pkgPath, name string) {
	full = strings.TrimPrefix(full, "*")
	slash := strings.LastIndexByte(full, '/')
	if dot := strings.LastIndexByte(full, '.'); dot > slash {
		return full[:dot], full[dot+1:]
	}
	return "", full
}
