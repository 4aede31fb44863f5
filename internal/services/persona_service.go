package services

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// PersonaService holds the agent's system prompt, loaded from a markdown
// file and hot-reloaded when the file changes. Reload failures keep the
// last good persona active.
type PersonaService struct {
	mu      sync.RWMutex
	path    string
	persona string
	watcher *fsnotify.Watcher
}

// NewPersonaService loads the persona file and starts watching it
func NewPersonaService(path string) (*PersonaService, error) {
	s := &PersonaService{path: path}
	if err := s.reload(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("⚠️ [PERSONA] File watching unavailable: %v", err)
		return s, nil
	}

	// Watch the directory, not the file: editors replace files on save
	// and a direct watch dies with the old inode.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		log.Printf("⚠️ [PERSONA] Failed to watch %s: %v", filepath.Dir(path), err)
		watcher.Close()
		return s, nil
	}

	s.watcher = watcher
	go s.watch()
	log.Printf("👁️ [PERSONA] Watching %s for changes", path)
	return s, nil
}

// Get returns the current system prompt
func (s *PersonaService) Get() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persona
}

// Close stops the file watcher
func (s *PersonaService) Close() {
	if s.watcher != nil {
		s.watcher.Close()
	}
}

func (s *PersonaService) reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to read persona file: %w", err)
	}
	if len(data) == 0 {
		return fmt.Errorf("persona file %s is empty", s.path)
	}

	s.mu.Lock()
	s.persona = string(data)
	s.mu.Unlock()
	return nil
}

func (s *PersonaService) watch() {
	target := filepath.Clean(s.path)
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if err := s.reload(); err != nil {
				log.Printf("⚠️ [PERSONA] Reload failed, keeping previous persona: %v", err)
				continue
			}
			log.Println("🔄 [PERSONA] Persona reloaded")
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("⚠️ [PERSONA] Watcher error: %v", err)
		}
	}
}
