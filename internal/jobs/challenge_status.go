package jobs

import (
	"context"
	"log"
	"sync"
	"time"
)

// StatusSweeper rolls challenge lifecycle statuses forward from their dates.
type StatusSweeper interface {
	SweepStatuses(ctx context.Context) error
}

// TokenJanitor removes refresh tokens that can never be used again.
type TokenJanitor interface {
	DeleteExpiredTokens(ctx context.Context) error
	CleanupRevokedTokens(ctx context.Context) error
}

// ChallengeStatusProcessor runs scheduled maintenance
// - Transitions challenges from upcoming -> active when start_date is reached
// - Transitions challenges from active -> completed when end_date has passed
// - Purges expired and stale revoked refresh tokens
type ChallengeStatusProcessor struct {
	sweeper  StatusSweeper
	janitor  TokenJanitor
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
	running  bool
	mu       sync.Mutex
}

// NewChallengeStatusProcessor creates a new challenge status processor job
func NewChallengeStatusProcessor(sweeper StatusSweeper, janitor TokenJanitor, interval time.Duration) *ChallengeStatusProcessor {
	if interval == 0 {
		interval = 5 * time.Minute
	}
	return &ChallengeStatusProcessor{
		sweeper:  sweeper,
		janitor:  janitor,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the challenge status processor job
func (p *ChallengeStatusProcessor) Start() {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	p.running = true
	p.mu.Unlock()

	p.wg.Add(1)
	go p.run()
	log.Printf("Challenge status processor started (interval: %v)", p.interval)
}

// Stop gracefully stops the challenge status processor job
func (p *ChallengeStatusProcessor) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	p.mu.Unlock()

	close(p.stopCh)
	p.wg.Wait()
	log.Println("Challenge status processor stopped")
}

// run is the main loop
func (p *ChallengeStatusProcessor) run() {
	defer p.wg.Done()

	// Run immediately on start (but with a short delay to let services initialize)
	time.Sleep(5 * time.Second)
	p.sweep()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.sweep()
		case <-p.stopCh:
			return
		}
	}
}

// sweep runs one maintenance pass
func (p *ChallengeStatusProcessor) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := p.RunOnce(ctx); err != nil {
		log.Printf("Error sweeping challenge statuses: %v", err)
	}
}

// RunOnce runs the maintenance pass once (for testing or manual trigger)
func (p *ChallengeStatusProcessor) RunOnce(ctx context.Context) error {
	if err := p.sweeper.SweepStatuses(ctx); err != nil {
		return err
	}
	if p.janitor != nil {
		if err := p.janitor.DeleteExpiredTokens(ctx); err != nil {
			return err
		}
		if err := p.janitor.CleanupRevokedTokens(ctx); err != nil {
			return err
		}
	}
	return nil
}
