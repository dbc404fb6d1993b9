package usecase

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	authrepo "uniwork-backend/internal/auth/repository"
	authusecase "uniwork-backend/internal/auth/usecase"
	syncdomain "uniwork-backend/internal/sync/domain"
	"uniwork-backend/pkg/faults"
)

const provider = "google"

// TokenResolver yields a usable access token for a user.
type TokenResolver interface {
	Resolve(ctx context.Context, userID, provider string) (*authusecase.ResolvedToken, error)
}

// Orchestrator drives sync passes over one or all connected users.
type Orchestrator struct {
	credRepo authrepo.CredentialRepository
	resolver TokenResolver
	engine   *Engine
	syncers  []Syncer
	now      func() time.Time
}

func NewOrchestrator(credRepo authrepo.CredentialRepository, resolver TokenResolver, engine *Engine, syncers ...Syncer) *Orchestrator {
	return &Orchestrator{
		credRepo: credRepo,
		resolver: resolver,
		engine:   engine,
		syncers:  syncers,
		now:      time.Now,
	}
}

// SyncUser runs every resource for one user. Before touching the provider it
// rules out credentials that cannot recover: an expired credential with no
// refresh token is invalidated on the spot and surfaced as needing re-auth.
func (o *Orchestrator) SyncUser(ctx context.Context, userID string) ([]*syncdomain.SyncReport, error) {
	cred, err := o.credRepo.GetCredential(userID, provider)
	if err != nil {
		return nil, fmt.Errorf("failed to load credential: %w", err)
	}
	if cred == nil {
		return nil, faults.ErrNeedsReauth
	}
	// A still-valid access token without a refresh token resolves as stored;
	// the short-circuit only applies once such a credential has expired.
	if cred.RefreshToken == "" && cred.Expired(o.now()) {
		if ierr := o.credRepo.Invalidate(userID, provider); ierr != nil {
			log.Printf("[Sync] failed to invalidate credential for user %s: %v", userID, ierr)
		}
		return nil, fmt.Errorf("%w: credential cannot refresh", faults.ErrNeedsReauth)
	}

	resolved, err := o.resolver.Resolve(ctx, userID, provider)
	if err != nil {
		return nil, err
	}

	var reports []*syncdomain.SyncReport
	for _, s := range o.syncers {
		report, err := o.engine.SyncResource(ctx, s, userID, resolved.Token)
		if err != nil {
			return reports, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// SyncAll runs a batch pass over every connected user. Users run
// concurrently and fail independently; one bad credential never stops the
// batch.
func (o *Orchestrator) SyncAll(ctx context.Context) (*syncdomain.BatchReport, error) {
	creds, err := o.credRepo.ListConnected(provider)
	if err != nil {
		return nil, fmt.Errorf("failed to list connected users: %w", err)
	}

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		report syncdomain.BatchReport
	)

	for _, cred := range creds {
		wg.Add(1)
		go func(userID string) {
			defer wg.Done()

			reports, err := o.SyncUser(ctx, userID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed++
				log.Printf("[Sync] user %s failed: %v", userID, err)
				return
			}
			report.Succeeded++
			for _, r := range reports {
				report.ItemsIngested += r.ItemsIngested
			}
		}(cred.UserID)
	}
	wg.Wait()

	log.Printf("[Sync] batch done: %d succeeded, %d failed, %d items", report.Succeeded, report.Failed, report.ItemsIngested)
	return &report, nil
}
