// Copyright 2019 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// fileWatcher signals when a file is written or replaced. The directory
// is watched rather than the file so that editors and tools which write a
// new file and rename it over the old one are noticed too.
type fileWatcher struct {
	w       *fsnotify.Watcher
	name    string
	changes chan struct{}
	done    chan struct{}
}

func watchFile(path string) (*fileWatcher, error) {
	name, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(name)); err != nil {
		w.Close()
		return nil, err
	}
	fw := &fileWatcher{
		w:       w,
		name:    name,
		changes: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go fw.loop()
	return fw, nil
}

func (fw *fileWatcher) loop() {
	defer close(fw.done)
	for {
		select {
		case ev, ok := <-fw.w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != fw.name {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			debug("watch: %v", ev)
			// Coalesce bursts; one pending reload is enough.
			select {
			case fw.changes <- struct{}{}:
			default:
			}
		case err, ok := <-fw.w.Errors:
			if !ok {
				return
			}
			warn("watch %s: %v", fw.name, err)
		}
	}
}

// Changes delivers a value after the file changed.
func (fw *fileWatcher) Changes() <-chan struct{} {
	return fw.changes
}

func (fw *fileWatcher) Close() error {
	err := fw.w.Close()
	<-fw.done
	return err
}
