package ui

import (
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// watchDebounce lets bursts of writes settle before a reload.
const watchDebounce = 100 * time.Millisecond

// watchFile watches the directory holding path. Editors often replace a
// file instead of writing it, which a watch on the file itself misses.
func watchFile(path string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}
	return watcher, nil
}

// waitForFileChange blocks until path is written, created, renamed or
// removed. It returns nil once the watcher is closed.
func waitForFileChange(watcher *fsnotify.Watcher, path string) tea.Cmd {
	name := filepath.Clean(path)
	return func() tea.Msg {
		if watcher == nil {
			return nil
		}
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(event.Name) != name {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
					event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
					time.Sleep(watchDebounce)
					drain(watcher)
					return fileChangedMsg{}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				return watchErrMsg{err: err}
			}
		}
	}
}

// drain discards events queued during the debounce.
func drain(watcher *fsnotify.Watcher) {
	for {
		select {
		case _, ok := <-watcher.Events:
			if !ok {
				return
			}
		default:
			return
		}
	}
}
