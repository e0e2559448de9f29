package xaopconf

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchCallback 在配置文件变更并重新加载后调用。err 非 nil 时 s 为 nil。
type WatchCallback func(s *Settings, err error)

// WatchOption 配置 Watcher。
type WatchOption func(*watchOptions)

type watchOptions struct {
	debounce time.Duration
	logger   *slog.Logger
}

// WithDebounce 设置防抖时间，窗口内的多次变更只触发一次加载。默认 100ms。
func WithDebounce(d time.Duration) WatchOption {
	return func(o *watchOptions) {
		if d > 0 {
			o.debounce = d
		}
	}
}

// WithWatchLogger 设置日志记录器，nil 将被忽略。
func WithWatchLogger(logger *slog.Logger) WatchOption {
	return func(o *watchOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Watcher 监视配置文件，变更后重新加载并回调。
type Watcher struct {
	path     string
	fs       *fsnotify.Watcher
	callback WatchCallback
	opts     watchOptions

	stop chan struct{}
	done chan struct{}

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
	reloads sync.WaitGroup
}

// Watch 开始监视 path，直到调用 Stop。
//
// 监视的是文件所在目录，编辑器先删除再创建文件或原子 rename 的写法都能被感知。
func Watch(path string, callback WatchCallback, opts ...WatchOption) (*Watcher, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	if callback == nil {
		return nil, errors.New("xaopconf: nil watch callback")
	}
	if _, err := DetectFormat(path); err != nil {
		return nil, err
	}
	o := watchOptions{debounce: 100 * time.Millisecond, logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("xaopconf: create watcher: %w", err)
	}
	dir := filepath.Dir(path)
	if err := fs.Add(dir); err != nil {
		return nil, errors.Join(fmt.Errorf("xaopconf: watch directory %s: %w", dir, err), fs.Close())
	}

	w := &Watcher{
		path:     path,
		fs:       fs,
		callback: callback,
		opts:     o,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Stop 停止监视，等待后台 goroutine 和进行中的重新加载结束。可重复调用。
// Stop 返回后回调不会再被调用。
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()

	close(w.stop)
	err := w.fs.Close()
	<-w.done
	w.reloads.Wait()
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	name := filepath.Base(w.path)
	for {
		select {
		case <-w.stop:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) == name && ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.schedule()
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.opts.logger.Warn("xaopconf: watch error", slog.String("path", w.path), slog.Any("error", err))
			w.callback(nil, fmt.Errorf("xaopconf: watch %s: %w", w.path, err))
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.opts.debounce, w.reload)
}

func (w *Watcher) reload() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	// Add 只在未停止时持锁调用，不会与 Stop 中的 Wait 并发。
	w.reloads.Add(1)
	w.mu.Unlock()
	defer w.reloads.Done()

	s, err := Load(w.path)
	if err != nil {
		w.opts.logger.Warn("xaopconf: reload failed", slog.String("path", w.path), slog.Any("error", err))
		w.callback(nil, err)
		return
	}
	w.opts.logger.Info("xaopconf: settings reloaded",
		slog.String("path", w.path), slog.Int("pointcuts", len(s.Pointcuts)))
	w.callback(s, nil)
}
