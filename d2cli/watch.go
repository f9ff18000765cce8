package d2cli

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"oss.terrastruct.com/util-go/xmain"

	"oss.terrastruct.com/d2flow/lib/log"
)

// watcher reruns the CLI whenever the options file changes.
type watcher struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	ms *xmain.State
	runOpts

	runCh chan struct{}

	fw *fsnotify.Watcher

	errMu sync.Mutex
	err   error
}

func newWatcher(ctx context.Context, ms *xmain.State, ro runOpts) (*watcher, error) {
	ctx, cancel := context.WithCancel(log.Named(ctx, "watch"))

	w := &watcher{
		ctx:    ctx,
		cancel: cancel,

		ms:      ms,
		runOpts: ro,

		runCh: make(chan struct{}, 1),
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		cancel()
		return nil, err
	}
	w.fw = fw
	return w, nil
}

func (w *watcher) run() error {
	defer w.close()

	w.goFunc(w.watchLoop)
	w.goFunc(w.runLoop)

	w.wg.Wait()
	w.close()
	return w.err
}

func (w *watcher) close() {
	w.cancel()
	if w.fw != nil {
		err := w.fw.Close()
		if err != nil && !errors.Is(err, fsnotify.ErrClosed) {
			w.setErr(err)
		}
	}
}

func (w *watcher) setErr(err error) {
	w.errMu.Lock()
	if w.err == nil {
		w.err = err
	}
	w.errMu.Unlock()
}

func (w *watcher) goFunc(fn func(context.Context) error) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer w.cancel()

		err := fn(w.ctx)
		if !errors.Is(err, context.Canceled) {
			w.setErr(err)
		}
	}()
}

// watchLoop follows the options file. Editors often write a file as a burst of
// events so changes are batched until the file has been quiet for 16ms.
// Events can be missed when the file is replaced, so the modification time is
// also polled.
func (w *watcher) watchLoop(ctx context.Context) error {
	lastModified, err := w.ensureAddWatch(ctx, w.configPath)
	if err != nil {
		return err
	}
	w.ms.Log.Info.Printf("watching %v...", w.ms.HumanPath(w.configPath))
	w.requestRun()

	eatBurstTimer := time.NewTimer(0)
	<-eatBurstTimer.C
	pollTicker := time.NewTicker(time.Second * 10)
	defer pollTicker.Stop()

	changed := false
	for {
		select {
		case <-pollTicker.C:
			mt, err := w.ensureAddWatch(ctx, w.configPath)
			if err != nil {
				return err
			}
			if !mt.Equal(lastModified) {
				lastModified = mt
				w.requestRun()
			}
		case ev, ok := <-w.fw.Events:
			if !ok {
				return errors.New("fsnotify watcher closed")
			}
			w.ms.Log.Debug.Printf("received file system event %v", ev)
			mt, err := w.ensureAddWatch(ctx, w.configPath)
			if err != nil {
				return err
			}
			if ev.Op == fsnotify.Chmod && mt.Equal(lastModified) {
				continue
			}
			lastModified = mt
			changed = true
			eatBurstTimer.Reset(time.Millisecond * 16)
		case <-eatBurstTimer.C:
			if !changed {
				continue
			}
			changed = false
			w.ms.Log.Info.Printf("detected change in %s: rerunning...", w.ms.HumanPath(w.configPath))
			w.requestRun()
		case err, ok := <-w.fw.Errors:
			if !ok {
				return errors.New("fsnotify watcher closed")
			}
			w.ms.Log.Error.Printf("fsnotify error: %v", err)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (w *watcher) requestRun() {
	select {
	case w.runCh <- struct{}{}:
	default:
	}
}

// ensureAddWatch retries with backoff until path can be watched, e.g. while an
// editor replaces the file.
func (w *watcher) ensureAddWatch(ctx context.Context, path string) (time.Time, error) {
	interval := time.Millisecond * 16
	tc := time.NewTimer(0)
	<-tc.C
	for {
		mt, err := w.addWatch(path)
		if err == nil {
			return mt, nil
		}
		if interval >= time.Second {
			w.ms.Log.Error.Printf("failed to watch %q: %v (retrying in %v)", w.ms.HumanPath(path), err, interval)
		}

		tc.Reset(interval)
		select {
		case <-tc.C:
			if interval < time.Second {
				interval = time.Second
			}
			if interval < time.Second*16 {
				interval *= 2
			}
		case <-ctx.Done():
			return time.Time{}, ctx.Err()
		}
	}
}

func (w *watcher) addWatch(path string) (time.Time, error) {
	err := w.fw.Add(path)
	if err != nil {
		return time.Time{}, err
	}
	d, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return d.ModTime(), nil
}

// runLoop keeps going after failed runs so a broken options file can be fixed
// without restarting.
func (w *watcher) runLoop(ctx context.Context) error {
	first := true
	for {
		select {
		case <-w.runCh:
		case <-ctx.Done():
			return ctx.Err()
		}

		prefix := ""
		if !first {
			prefix = "re"
		}
		first = false

		err := run(ctx, w.ms, w.runOpts)
		if err != nil {
			w.ms.Log.Error.Printf("failed to %srun: %v", prefix, err)
		}
	}
}
