package backend

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"gioui.org/x/explorer"
	"git.sr.ht/~gioverse/skel/stream"
	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

type RWBox[T any] struct {
	t    T
	lock sync.RWMutex
}

func (r *RWBox[T]) Read(f func(*T)) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	f(&r.t)
}

func (r *RWBox[T]) Write(f func(*T)) {
	r.lock.Lock()
	defer r.lock.Unlock()
	f(&r.t)
}

// Datasource supplies dataset definitions, reloading them whenever the file
// they came from changes.
type Datasource struct {
	current RWBox[DefinitionSet]
	watcher *fsnotify.Watcher
	defs    *stream.Mutation[DefinitionSet]
	loads   chan DefinitionSet
	stopped chan struct{}
}

// NewDatasource loads definitions from path and starts watching it as a
// mutation of the given mutator. It stops when the mutator's context ends.
// An empty path serves DefaultDefinitions and watches nothing.
func NewDatasource(mutator *stream.Mutator, path string) (*Datasource, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed creating file watcher: %w", err)
	}
	d := &Datasource{
		watcher: watcher,
		loads:   make(chan DefinitionSet),
		stopped: make(chan struct{}),
	}
	d.current.Write(func(set *DefinitionSet) {
		set.Defs = DefaultDefinitions()
	})
	if path != "" {
		defs, err := LoadDefinitions(path)
		if err != nil {
			watcher.Close()
			return nil, err
		}
		if err := d.watch(path); err != nil {
			watcher.Close()
			return nil, err
		}
		d.current.Write(func(set *DefinitionSet) {
			*set = DefinitionSet{Path: path, Defs: defs}
		})
	}
	pool := stream.NewMutationPool[string, DefinitionSet](mutator)
	d.defs, _ = stream.Mutate(pool, "definitions", d.run)
	if d.defs == nil {
		watcher.Close()
		return nil, ErrDatasourceClosed
	}
	return d, nil
}

// watch follows the directory holding path, since editors commonly replace
// files instead of writing them in place.
func (d *Datasource) watch(path string) error {
	if err := d.watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed watching %s: %w", path, err)
	}
	return nil
}

// Current returns the most recently loaded definitions.
func (d *Datasource) Current() DefinitionSet {
	var out DefinitionSet
	d.current.Read(func(set *DefinitionSet) {
		out = *set
	})
	return out
}

// Definitions streams the current definitions followed by every change. The
// channel closes when ctx is done or the datasource stops. Slow readers only
// ever see the latest value.
func (d *Datasource) Definitions(ctx context.Context) <-chan DefinitionSet {
	return d.defs.Stream(ctx)
}

func (d *Datasource) reload(path string) DefinitionSet {
	defs, err := LoadDefinitions(path)
	if err != nil {
		log.Warnf("[datasource] keeping previous definitions: %v", err)
		prev := d.Current()
		prev.Err = err
		return prev
	}
	log.Infof("[datasource] loaded %d dataset definitions from %s", len(defs), path)
	return DefinitionSet{Path: path, Defs: defs}
}

// run is the mutation provider behind Definitions. It emits the current
// definitions, then one value per reload or explicit load, until ctx ends.
func (d *Datasource) run(ctx context.Context) <-chan DefinitionSet {
	out := make(chan DefinitionSet, 1)
	out <- d.Current()
	go func() {
		defer close(out)
		defer close(d.stopped)
		defer d.watcher.Close()
		emit := func(set DefinitionSet) bool {
			d.current.Write(func(cur *DefinitionSet) {
				*cur = set
			})
			select {
			case out <- set:
				return true
			case <-ctx.Done():
				return false
			}
		}
		for {
			select {
			case <-ctx.Done():
				return
			case set := <-d.loads:
				if !emit(set) {
					return
				}
			case ev, ok := <-d.watcher.Events:
				if !ok {
					return
				}
				path := d.Current().Path
				if path == "" || filepath.Clean(ev.Name) != filepath.Clean(path) {
					continue
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
					if !emit(d.reload(path)) {
						return
					}
				}
			case err, ok := <-d.watcher.Errors:
				if !ok {
					return
				}
				log.Warnf("[datasource] watcher error: %v", err)
			}
		}
	}()
	return out
}

// Done is closed once the datasource has stopped watching.
func (d *Datasource) Done() <-chan struct{} {
	return d.stopped
}

// LoadFile reads definitions from an already opened file and publishes
// them. If the file has a name on disk, it is watched from then on.
func (d *Datasource) LoadFile(file io.ReadCloser) error {
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("failed reading dataset definitions: %w", err)
	}
	defs, err := ParseDefinitions(data)
	if err != nil {
		return err
	}
	var path string
	if f, ok := file.(interface{ Name() string }); ok {
		path = f.Name()
		if err := d.watch(path); err != nil {
			log.Warnf("[datasource] %v", err)
		}
	}
	select {
	case d.loads <- DefinitionSet{Path: path, Defs: defs}:
		return nil
	case <-d.stopped:
		return ErrDatasourceClosed
	}
}

// LoadFromFile asks the user to pick a definitions file. It blocks until
// the user has chosen, so it must not be called from the UI goroutine.
func (d *Datasource) LoadFromFile(expl *explorer.Explorer) error {
	file, err := expl.ChooseFile(".yaml", ".yml")
	if err != nil {
		return err
	}
	return d.LoadFile(file)
}
