package syncer

import (
	"fmt"
	"log/slog"
)

// Register schedules the background registration tag on a cron spec such
// as "@every 5m" or "*/10 * * * *". Registering a tag again replaces its
// schedule. Firings are delivered to Run.
func (s *Syncer) Register(tag, spec string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.cron.AddFunc(spec, func() { s.fire(tag) })
	if err != nil {
		return fmt.Errorf("syncer.Register %s: %w", tag, err)
	}
	if prev, ok := s.regs[tag]; ok {
		s.cron.Remove(prev)
	}
	s.regs[tag] = id
	s.log.Info("background sync registered", slog.String("tag", tag), slog.String("spec", spec))
	return nil
}

// Unregister removes the registration tag. Unknown tags are ignored.
func (s *Syncer) Unregister(tag string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.regs[tag]; ok {
		s.cron.Remove(id)
		delete(s.regs, tag)
	}
}

// Registrations lists the registered tags.
func (s *Syncer) Registrations() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	tags := make([]string, 0, len(s.regs))
	for tag := range s.regs {
		tags = append(tags, tag)
	}
	return tags
}

func (s *Syncer) fire(tag string) {
	select {
	case s.fired <- tag:
	default:
		s.log.Debug("background sync already pending", slog.String("tag", tag))
	}
}
