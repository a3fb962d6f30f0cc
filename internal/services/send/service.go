// Package send owns the per-frame transmission of realized senders. It is
// decoupled from rebuilding: the engine publishes a fresh sender list by
// reference swap and the frame loop picks it up on its next tick.
package send

import (
	"log"
	"net"
	"sync"
	"time"

	"github.com/bbernstein/pixelmux-go/internal/output"
	"github.com/bbernstein/pixelmux-go/internal/pixel"
)

// Config holds send service configuration.
type Config struct {
	Enabled          bool
	RefreshRateHz    int
	IdleRateHz       int
	HighRateDuration time.Duration
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() Config {
	return Config{
		Enabled:          true,
		RefreshRateHz:    60,
		IdleRateHz:       1,
		HighRateDuration: 2 * time.Second,
	}
}

// Service runs the animation-frame transmission loop over the most recently
// published sender list.
type Service struct {
	mu sync.RWMutex

	senders []*output.Sender
	buffer  pixel.Buffer
	master  float64

	conns map[string]net.Conn

	enabled          bool
	refreshRateHz    int
	idleRateHz       int
	highRateDuration time.Duration

	// Adaptive transmission rate state
	currentRate      int
	isInHighRateMode bool
	lastChangeTime   time.Time
	isDirty          bool

	stopChan chan struct{}
	running  bool
}

// NewService creates a new send service.
func NewService(cfg Config) *Service {
	refreshRate := cfg.RefreshRateHz
	if refreshRate <= 0 {
		refreshRate = 60
	}
	idleRate := cfg.IdleRateHz
	if idleRate <= 0 {
		idleRate = 1
	}
	highRateDuration := cfg.HighRateDuration
	if highRateDuration <= 0 {
		highRateDuration = 2 * time.Second
	}

	return &Service{
		conns:            make(map[string]net.Conn),
		master:           1.0,
		enabled:          cfg.Enabled,
		refreshRateHz:    refreshRate,
		idleRateHz:       idleRate,
		highRateDuration: highRateDuration,
		currentRate:      idleRate,
		stopChan:         make(chan struct{}),
	}
}

// Start begins the transmission loop.
func (s *Service) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	log.Printf("📡 Send service started: %dHz (active) / %dHz (idle), %v high-rate duration",
		s.refreshRateHz, s.idleRateHz, s.highRateDuration)
	go s.transmitLoop()
}

// SwapSenders atomically publishes a new sender list. The frame loop never
// sees a partially built list.
func (s *Service) SwapSenders(senders []*output.Sender) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.senders = senders
	s.markDirty()
}

// SetBuffer publishes a new color buffer for subsequent frames.
func (s *Service) SetBuffer(buf pixel.Buffer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buffer = buf
	s.markDirty()
}

// SetMaster sets the master brightness scalar in [0,1].
func (s *Service) SetMaster(master float64) {
	if master < 0 {
		master = 0
	}
	if master > 1 {
		master = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.master = master
	s.markDirty()
}

// SenderCount returns the number of senders in the current list.
func (s *Service) SenderCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.senders)
}

// CurrentRate returns the current transmission rate in Hz.
func (s *Service) CurrentRate() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentRate
}

// markDirty switches to high-rate mode. Caller holds the lock.
func (s *Service) markDirty() {
	s.isDirty = true
	s.lastChangeTime = time.Now()
	if !s.isInHighRateMode {
		s.isInHighRateMode = true
		s.currentRate = s.refreshRateHz
	}
}

// transmitLoop runs the adaptive rate transmission loop.
func (s *Service) transmitLoop() {
	s.mu.RLock()
	interval := time.Second / time.Duration(s.currentRate)
	s.mu.RUnlock()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastRate := 0

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.processFrame()

			s.mu.RLock()
			currentRate := s.currentRate
			s.mu.RUnlock()

			if currentRate != lastRate {
				// Recreate the ticker when the rate changes.
				oldTicker := ticker
				ticker = time.NewTicker(time.Second / time.Duration(currentRate))
				oldTicker.Stop()
				lastRate = currentRate
			}
		}
	}
}

// processFrame handles a single frame: rate adaptation, then one send per
// sender against the current buffer.
func (s *Service) processFrame() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if s.isDirty {
		s.lastChangeTime = now
	} else if s.isInHighRateMode && !s.lastChangeTime.IsZero() && now.Sub(s.lastChangeTime) > s.highRateDuration {
		s.isInHighRateMode = false
		s.currentRate = s.idleRateHz
	}
	s.isDirty = false

	if !s.enabled {
		return
	}
	s.sendFrame(s.buffer, s.master, now)
}

// sendFrame writes one packet per sender. Caller holds the lock.
func (s *Service) sendFrame(buf pixel.Buffer, master float64, now time.Time) {
	for _, sender := range s.senders {
		conn, err := s.conn(sender)
		if err != nil {
			log.Printf("send error: dial %s %s: %v", sender.Network(), sender.Dest(), err)
			continue
		}
		if err := sender.Send(conn, buf, master, now); err != nil {
			log.Printf("send error: %s universe %d to %s: %v",
				sender.Protocol(), sender.Universe(), sender.Dest(), err)
			// Drop the connection so the next frame redials.
			_ = conn.Close()
			delete(s.conns, sender.Network()+"|"+sender.Dest())
		}
	}
}

// conn returns a pooled connection for the sender's destination, dialing on
// first use. Senders sharing a destination share one socket.
func (s *Service) conn(sender *output.Sender) (net.Conn, error) {
	key := sender.Network() + "|" + sender.Dest()
	if c, ok := s.conns[key]; ok {
		return c, nil
	}
	c, err := net.DialTimeout(sender.Network(), sender.Dest(), 2*time.Second)
	if err != nil {
		return nil, err
	}
	s.conns[key] = c
	return c, nil
}

// Blackout immediately sends zeroed pixel data on every sender, bypassing
// frame-rate caps.
func (s *Service) Blackout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled {
		return
	}
	s.sendBlackoutLocked()
}

// sendBlackoutLocked writes a zeroed frame on every sender. Caller holds
// the lock.
func (s *Service) sendBlackoutLocked() {
	dark := make(pixel.Buffer, len(s.buffer))
	for _, sender := range s.senders {
		conn, err := s.conn(sender)
		if err != nil {
			continue
		}
		_ = sender.SendNow(conn, dark, 1.0)
	}
}

// Stop stops the frame loop, sends a final blackout, and closes all
// connections.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	close(s.stopChan)
	s.running = false

	if s.enabled {
		s.sendBlackoutLocked()
	}

	for key, c := range s.conns {
		_ = c.Close()
		delete(s.conns, key)
	}
	s.mu.Unlock()

	log.Printf("📡 Send service stopped")
}
