// Package engine owns the fixture tree and the rebuild cycle: structural
// changes trigger a full rebuild, whose sender list is swapped into the
// send service while the previous list keeps serving frames.
package engine

import (
	"log"
	"sync"

	"github.com/bbernstein/pixelmux-go/internal/fixture"
	"github.com/bbernstein/pixelmux-go/internal/output"
	"github.com/bbernstein/pixelmux-go/internal/services/pubsub"
	"github.com/bbernstein/pixelmux-go/internal/services/send"
)

// Service coordinates rebuilds of the output packet set.
type Service struct {
	mu sync.RWMutex

	tree   *fixture.Tree
	result *output.BuildResult

	sendService    *send.Service
	events         *pubsub.PubSub
	defaultAddress string
}

// NewService creates a new engine service. defaultAddress is used for
// outputs that declare no destination.
func NewService(sendService *send.Service, events *pubsub.PubSub, defaultAddress string) *Service {
	return &Service{
		sendService:    sendService,
		events:         events,
		defaultAddress: defaultAddress,
		tree:           &fixture.Tree{},
		result:         &output.BuildResult{},
	}
}

// SetTree replaces the fixture tree and rebuilds. Outputs without a
// destination address inherit the engine default.
func (s *Service) SetTree(tree *fixture.Tree) *output.BuildResult {
	for i := range tree.Nodes {
		for j := range tree.Nodes[i].Outputs {
			if tree.Nodes[i].Outputs[j].Address == "" {
				tree.Nodes[i].Outputs[j].Address = s.defaultAddress
			}
		}
	}
	s.mu.Lock()
	s.tree = tree
	s.mu.Unlock()
	return s.Rebuild()
}

// Rebuild runs one full packet-building pass over the current fixture tree
// and publishes the fresh sender list. Rebuilds are serialized; the send
// loop keeps using the previous list until the swap.
func (s *Service) Rebuild() *output.BuildResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := output.Build(s.tree)
	s.result = result

	if s.sendService != nil {
		s.sendService.SwapSenders(result.Senders)
	}
	if s.events != nil {
		s.events.Publish(pubsub.TopicRebuildCompleted, len(result.Senders))
		if len(result.Diagnostics) > 0 {
			s.events.Publish(pubsub.TopicDiagnostics, result.DiagnosticsString())
		}
	}

	if len(result.Diagnostics) > 0 {
		log.Printf("⚠️  Rebuild completed with %d senders, %d diagnostics", len(result.Senders), len(result.Diagnostics))
	} else {
		log.Printf("🎭 Rebuild completed with %d senders", len(result.Senders))
	}
	return result
}

// Result returns the most recent rebuild result.
func (s *Service) Result() *output.BuildResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

// Diagnostics returns the diagnostics summary of the most recent rebuild,
// empty when it was clean.
func (s *Service) Diagnostics() string {
	return s.Result().DiagnosticsString()
}
