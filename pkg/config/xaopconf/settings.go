package xaopconf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/omeyang/xaop/pkg/aop/xaop"
	"github.com/omeyang/xaop/pkg/aop/xautoproxy"
	"github.com/omeyang/xaop/pkg/aop/xpointcut"
)

// Format 是配置文件格式。
type Format string

// 支持的配置格式。
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Settings 是自动代理协调器的声明式配置。
type Settings struct {
	ProxyTargetClass     bool           `koanf:"proxy_target_class"`
	ExposeProxy          bool           `koanf:"expose_proxy"`
	Freeze               bool           `koanf:"freeze"`
	DisableClassFallback bool           `koanf:"disable_class_fallback"`
	CacheSize            int            `koanf:"cache_size"`
	OrderOverrides       map[string]int `koanf:"order_overrides"`
	Pointcuts            []Pointcut     `koanf:"pointcuts"`
}

// Pointcut 是一个命名切点及其引用的 Advice。
// Expression、Patterns、Names 必须且只能配置一种。
type Pointcut struct {
	Name       string   `koanf:"name"`
	Expression string   `koanf:"expression"`
	Dynamic    bool     `koanf:"dynamic"`
	Patterns   []string `koanf:"patterns"`
	Excludes   []string `koanf:"excludes"`
	Names      []string `koanf:"names"`
	Advice     string   `koanf:"advice"`
	// Order 为空时使用 Advice 自身的顺序。
	Order *int `koanf:"order"`
}

// Load 读取并校验配置文件，格式由扩展名决定（.yaml/.yml 或 .json）。
func Load(path string) (*Settings, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	return Parse(data, format)
}

// Parse 解析并校验配置内容。空内容得到零值配置。
func Parse(data []byte, format Format) (*Settings, error) {
	var parser koanf.Parser
	switch format {
	case FormatYAML:
		parser = yaml.Parser()
	case FormatJSON:
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	k := koanf.New(".")
	if len(data) > 0 {
		if err := k.Load(rawbytes.Provider(data), parser); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParseFailed, err)
		}
	}
	var s Settings
	if err := k.UnmarshalWithConf("", &s, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// DetectFormat 根据扩展名判断格式。
func DetectFormat(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown extension %q", ErrUnsupportedFormat, ext)
	}
}

// Validate 检查配置，返回全部问题合并后的错误。
func (s *Settings) Validate() error {
	var errs []error
	if s.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("cache_size must not be negative, got %d", s.CacheSize))
	}
	seen := make(map[string]bool, len(s.Pointcuts))
	for i, pc := range s.Pointcuts {
		if pc.Name == "" {
			errs = append(errs, fmt.Errorf("pointcuts[%d]: missing name", i))
		} else if seen[pc.Name] {
			errs = append(errs, fmt.Errorf("pointcuts[%d]: duplicate name %q", i, pc.Name))
		}
		seen[pc.Name] = true
		if pc.Advice == "" {
			errs = append(errs, fmt.Errorf("pointcut %q: missing advice", pc.Name))
		}
		if _, err := pc.Build(); err != nil {
			errs = append(errs, fmt.Errorf("pointcut %q: %w", pc.Name, err))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidSettings, errors.Join(errs...))
}

// Build 构造切点。
func (p Pointcut) Build() (xaop.Pointcut, error) {
	kinds := 0
	for _, set := range []bool{p.Expression != "", len(p.Patterns) > 0, len(p.Names) > 0} {
		if set {
			kinds++
		}
	}
	if kinds != 1 {
		return nil, errors.New("exactly one of expression, patterns or names is required")
	}
	if p.Dynamic && p.Expression == "" {
		return nil, errors.New("dynamic requires expression")
	}
	if len(p.Excludes) > 0 && len(p.Patterns) == 0 {
		return nil, errors.New("excludes requires patterns")
	}

	switch {
	case p.Expression != "":
		compile := xpointcut.NewExpression
		if p.Dynamic {
			compile = xpointcut.NewDynamicExpression
		}
		e, err := compile(p.Expression)
		if err != nil {
			return nil, err
		}
		return e, nil
	case len(p.Patterns) > 0:
		rm, err := xpointcut.Regexp(p.Patterns, p.Excludes...)
		if err != nil {
			return nil, err
		}
		return xaop.NewPointcut(nil, rm), nil
	default:
		return xaop.NewPointcut(nil, xpointcut.NameMatch(p.Names...)), nil
	}
}

// AdviceLookup 按名字查找 Advice。
type AdviceLookup func(name string) (xaop.Advice, bool)

// Source 用 lookup 解析每个切点引用的 Advice，返回以切点名为键的 AdvisorSource。
func (s *Settings) Source(lookup AdviceLookup) (xautoproxy.AdvisorMap, error) {
	if lookup == nil {
		return nil, fmt.Errorf("%w: nil lookup", ErrUnknownAdvice)
	}
	out := make(xautoproxy.AdvisorMap, len(s.Pointcuts))
	for _, p := range s.Pointcuts {
		advice, ok := lookup(p.Advice)
		if !ok {
			return nil, fmt.Errorf("%w: %q referenced by pointcut %q", ErrUnknownAdvice, p.Advice, p.Name)
		}
		pc, err := p.Build()
		if err != nil {
			return nil, fmt.Errorf("%w: pointcut %q: %w", ErrInvalidSettings, p.Name, err)
		}
		opts := []xaop.AdvisorOption{xaop.WithName(p.Name)}
		if p.Order != nil {
			opts = append(opts, xaop.WithOrder(*p.Order))
		}
		out[p.Name] = xaop.NewAdvisor(pc, advice, opts...)
	}
	return out, nil
}

// CreatorOptions 返回与配置对应的 xautoproxy 选项。
func (s *Settings) CreatorOptions() []xautoproxy.Option {
	opts := []xautoproxy.Option{
		xautoproxy.WithProxyTargetClass(s.ProxyTargetClass),
		xautoproxy.WithExposeProxy(s.ExposeProxy),
		xautoproxy.WithFreeze(s.Freeze),
		xautoproxy.WithClassFallback(!s.DisableClassFallback),
	}
	if len(s.OrderOverrides) > 0 {
		opts = append(opts, xautoproxy.WithOrderOverrides(s.OrderOverrides))
	}
	if s.CacheSize > 0 {
		opts = append(opts, xautoproxy.WithCacheSize(s.CacheSize))
	}
	return opts
}

// MatchDescriptor 在名字级描述上判断切点是否命中，不需要反射类型。
// 动态表达式只能在调用时判定，此时 dynamic 为 true，matched 恒为 true。
func (p Pointcut) MatchDescriptor(d xpointcut.Descriptor) (matched, dynamic bool, err error) {
	pc, err := p.Build()
	if err != nil {
		return false, false, err
	}
	switch mm := pc.MethodMatcher().(type) {
	case *xpointcut.Expression:
		if mm.IsRuntime() {
			return true, true, nil
		}
		ok, err := mm.MatchDescriptor(d, nil)
		return ok, false, err
	case *xpointcut.RegexpMatcher:
		return mm.MatchString(d.FullName()), false, nil
	case *xpointcut.NameMatcher:
		return mm.MatchName(d.Method), false, nil
	default:
		return false, false, fmt.Errorf("%w: unsupported matcher %T", ErrInvalidSettings, mm)
	}
}
