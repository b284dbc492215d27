package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// SyncEntity is one entry of a reconcilable collection. SyncID returns either
// a permanent store id or a local placeholder (domain.IsLocalID tells them
// apart). ContentEquals decides whether an update against the snapshot entry
// would be a no-op.
type SyncEntity[T any] interface {
	SyncID() string
	Validate() error
	ContentEquals(T) bool
}

// SyncPort is the persistence side of a reconciliation pass. Create returns
// the entity with its store-assigned id.
type SyncPort[T any] interface {
	Create(ctx context.Context, entity T) (T, error)
	Update(ctx context.Context, entity T) (T, error)
	Delete(ctx context.Context, id string) error
}

type SyncFailure struct {
	ID  string `json:"id"`
	Op  string `json:"op"`
	Err string `json:"error"`
}

// SyncError aggregates per-entry failures of one reconciliation pass.
// Sibling entries proceed regardless; nothing is rolled back.
type SyncError struct {
	Collection string
	Failures   []SyncFailure
}

func (e *SyncError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%v %v: %v", f.Op, f.ID, f.Err))
	}

	return fmt.Sprintf("%v: %v entries failed: %v",
		e.Collection, len(e.Failures), strings.Join(parts, "; "))
}

// ValidationError pinpoints the offending entry of a collection that failed
// pre-flight validation. No store calls have been made when it is returned.
type ValidationError struct {
	Collection string
	ID         string
	Index      int
	Err        error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v[%v] (id %v): %v", e.Collection, e.Index, e.ID, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// validateCollection checks every entry and reports the first invalid one.
func validateCollection[T SyncEntity[T]](collection string, local []T) error {
	for i, entity := range local {
		if err := entity.Validate(); err != nil {
			return &ValidationError{
				Collection: collection,
				ID:         entity.SyncID(),
				Index:      i,
				Err:        err,
			}
		}
	}

	return nil
}

// SyncOutcome describes a finished reconciliation pass. Created maps local
// placeholder ids to store-assigned ids so the session can remap every
// reference it still holds.
type SyncOutcome struct {
	Created  map[string]string `json:"created"`
	Updated  []string          `json:"updated"`
	Deleted  []string          `json:"deleted"`
	Failures []SyncFailure     `json:"failures,omitempty"`
}

func (o SyncOutcome) Empty() bool {
	return len(o.Created) == 0 && len(o.Updated) == 0 && len(o.Deleted) == 0 && len(o.Failures) == 0
}

// Reconcile diffs a locally edited collection against the last-fetched store
// snapshot and issues the minimal create/update/delete set:
//
//   - snapshot entries absent locally are deleted;
//   - local entries with a snapshot id are updated, unless content-equal;
//   - local entries with a placeholder id are created and remapped.
//
// Entry operations touch disjoint ids and run concurrently. A failing entry
// is recorded and does not block its siblings; if anything failed the
// returned error is a *SyncError alongside the partial outcome. Re-running
// immediately after a fully successful pass computes zero operations.
func Reconcile[T SyncEntity[T]](ctx context.Context, collection string, snapshot, local []T, port SyncPort[T]) (SyncOutcome, error) {
	if err := validateCollection(collection, local); err != nil {
		return SyncOutcome{}, err
	}

	snapshotByID := make(map[string]T, len(snapshot))
	for _, entity := range snapshot {
		snapshotByID[entity.SyncID()] = entity
	}

	localIDs := make(map[string]struct{}, len(local))
	for _, entity := range local {
		localIDs[entity.SyncID()] = struct{}{}
	}

	outcome := SyncOutcome{Created: map[string]string{}}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	fail := func(op, id string, err error) {
		zap.L().Warn("reconciliation entry failed",
			zap.String("collection", collection),
			zap.String("op", op),
			zap.String("id", id),
			zap.Error(err),
		)

		mu.Lock()
		outcome.Failures = append(outcome.Failures, SyncFailure{ID: id, Op: op, Err: err.Error()})
		mu.Unlock()
	}

	for _, entity := range snapshot {
		id := entity.SyncID()
		if _, kept := localIDs[id]; kept {
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()

			if err := port.Delete(ctx, id); err != nil {
				fail("delete", id, err)
				return
			}

			mu.Lock()
			outcome.Deleted = append(outcome.Deleted, id)
			mu.Unlock()
		}()
	}

	for _, entity := range local {
		entity := entity
		id := entity.SyncID()

		remote, known := snapshotByID[id]
		if known {
			if entity.ContentEquals(remote) {
				continue
			}

			wg.Add(1)
			go func() {
				defer wg.Done()

				if _, err := port.Update(ctx, entity); err != nil {
					fail("update", id, err)
					return
				}

				mu.Lock()
				outcome.Updated = append(outcome.Updated, id)
				mu.Unlock()
			}()

			continue
		}

		// Unknown to the snapshot: a create, never an update against a
		// placeholder id.
		wg.Add(1)
		go func() {
			defer wg.Done()

			created, err := port.Create(ctx, entity)
			if err != nil {
				fail("create", id, err)
				return
			}

			mu.Lock()
			outcome.Created[id] = created.SyncID()
			mu.Unlock()
		}()
	}

	wg.Wait()

	if len(outcome.Failures) > 0 {
		return outcome, &SyncError{Collection: collection, Failures: outcome.Failures}
	}

	return outcome, nil
}
