package repository

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/lexigo/tilescore/internal/domain/model"
	"github.com/lexigo/tilescore/pkg/metrics"
)

// Treap-based, in-memory Store implementation.
//
// Ordering: points DESC, then createdAt ASC, then id ASC (deterministic).
// The BST comparator's "less" means ranks earlier, so an in-order
// traversal produces the leaderboard from best to worst.

// record is the stored payload, indexed by id.
type record struct {
	letters   string
	points    int
	createdAt time.Time
}

// Snapshot is an immutable, periodically published view of the leading
// records. Best-effort: it may trail the live tree by one interval.
type Snapshot struct {
	TopCache    []model.ScoreRecord
	PublishedAt time.Time
}

// treap node
type node struct {
	id        string
	points    int
	createdAt time.Time
	prio      uint64
	left      *node
	right     *node
	size      int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less reports whether (aPoints, aAt, aID) ranks earlier than
// (bPoints, bAt, bID) in the leaderboard.
func less(aPoints int, aAt time.Time, aID string, bPoints int, bAt time.Time, bID string) bool {
	if aPoints != bPoints {
		return aPoints > bPoints // higher score ranks earlier
	}
	if !aAt.Equal(bAt) {
		return aAt.Before(bAt) // earlier submission wins ties
	}
	return aID < bID
}

func rotateRight(y *node) *node {
	x := y.left
	t2 := x.right
	x.right = y
	y.left = t2
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	t2 := y.left
	y.left = x
	x.right = t2
	fix(x)
	fix(y)
	return y
}

func insert(n, in *node) *node {
	if n == nil {
		in.size = 1
		return in
	}
	if less(in.points, in.createdAt, in.id, n.points, n.createdAt, n.id) {
		n.left = insert(n.left, in)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, in)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, id string, points int, createdAt time.Time) *node {
	if n == nil {
		return nil
	}
	if id == n.id {
		// Merge children by rotating the higher priority up until leaf.
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, id, points, createdAt)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, id, points, createdAt)
		}
	} else if less(points, createdAt, id, n.points, n.createdAt, n.id) {
		n.left = deleteNode(n.left, id, points, createdAt)
	} else {
		n.right = deleteNode(n.right, id, points, createdAt)
	}
	fix(n)
	return n
}

// collectTopN appends up to limit records in leaderboard order.
func collectTopN(n *node, limit int, records map[string]record, out *[]model.ScoreRecord) {
	if n == nil || len(*out) >= limit {
		return
	}
	collectTopN(n.left, limit, records, out)
	if len(*out) < limit {
		if rec, ok := records[n.id]; ok {
			*out = append(*out, model.ScoreRecord{
				ID:        n.id,
				Letters:   rec.letters,
				Points:    rec.points,
				CreatedAt: rec.createdAt,
			})
		}
	}
	if len(*out) < limit {
		collectTopN(n.right, limit, records, out)
	}
}

// collectAll appends every record in leaderboard order.
func collectAll(n *node, records map[string]record, out *[]model.ScoreRecord) {
	if n == nil {
		return
	}
	collectAll(n.left, records, out)
	if rec, ok := records[n.id]; ok {
		*out = append(*out, model.ScoreRecord{
			ID:        n.id,
			Letters:   rec.letters,
			Points:    rec.points,
			CreatedAt: rec.createdAt,
		})
	}
	collectAll(n.right, records, out)
}

// TreapStore keeps score records in a treap ordered by the leaderboard
// sort, plus an id index for O(log n) deletes.
type TreapStore struct {
	mu               sync.RWMutex
	root             *node
	byID             map[string]record
	snapshotInterval time.Duration
	topCacheSize     int
	clock            func() time.Time
	newID            func() string

	snapshot atomic.Pointer[Snapshot]

	wg       sync.WaitGroup
	stopChan chan struct{}
}

// NewTreapStore constructs a treap store with configuration options.
func NewTreapStore(ctx context.Context, opts ...Option) *TreapStore {
	s := &TreapStore{
		snapshotInterval: 1 * time.Second,
		topCacheSize:     100,
		clock:            func() time.Time { return time.Now().UTC() },
		newID:            uuid.NewString,
		byID:             make(map[string]record),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.stopChan = make(chan struct{})
	s.startPeriodicSnapshots(ctx)

	return s
}

// startPeriodicSnapshots publishes snapshots at the configured interval
// until the store is closed or ctx is cancelled.
func (s *TreapStore) startPeriodicSnapshots(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.snapshotInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.publishSnapshot()
			}
		}
	}()
}

func (s *TreapStore) publishSnapshot() {
	start := time.Now()

	s.mu.RLock()
	top := make([]model.ScoreRecord, 0, s.topCacheSize)
	collectTopN(s.root, s.topCacheSize, s.byID, &top)
	s.mu.RUnlock()

	s.snapshot.Store(&Snapshot{TopCache: top, PublishedAt: s.clock()})

	ms := float64(time.Since(start).Milliseconds())
	metrics.RecordSnapshotRebuildDuration(ms)
	metrics.UpdateSnapshotLastUnix(float64(time.Now().Unix()))
	metrics.IncrementSnapshotCount()
}

// TopCached returns the last published snapshot of leading records.
// May be empty before the first interval elapses.
func (s *TreapStore) TopCached() []model.ScoreRecord {
	snap := s.snapshot.Load()
	if snap == nil {
		return nil
	}
	return snap.TopCache
}

// Close gracefully shuts down the snapshot goroutine.
func (s *TreapStore) Close() error {
	select {
	case <-s.stopChan:
		// already closed
	default:
		close(s.stopChan)
	}
	s.wg.Wait()
	return nil
}

// Save implements Store.Save in O(log n) expected time.
func (s *TreapStore) Save(ctx context.Context, letters string, points int) (model.ScoreRecord, error) {
	if err := ctx.Err(); err != nil {
		return model.ScoreRecord{}, err
	}

	start := time.Now()
	defer func() {
		metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	rec := model.ScoreRecord{
		ID:        s.newID(),
		Letters:   letters,
		Points:    points,
		CreatedAt: s.clock(),
	}

	s.mu.Lock()
	s.byID[rec.ID] = record{letters: rec.Letters, points: rec.Points, createdAt: rec.CreatedAt}
	s.root = insert(s.root, &node{
		id:        rec.ID,
		points:    rec.Points,
		createdAt: rec.CreatedAt,
		prio:      rand.Uint64(), //nolint:gosec // treap priorities need no cryptographic strength
	})
	count := len(s.byID)
	s.mu.Unlock()

	metrics.UpdateRepositoryRecords(count)
	return rec, nil
}

// Get returns a record by id.
func (s *TreapStore) Get(ctx context.Context, id string) (model.ScoreRecord, error) {
	if err := ctx.Err(); err != nil {
		return model.ScoreRecord{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byID[id]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return model.ScoreRecord{}, ErrNotFound
	}
	return model.ScoreRecord{ID: id, Letters: rec.letters, Points: rec.points, CreatedAt: rec.createdAt}, nil
}

// List implements Store.List. The leaderboard sort walks the treap
// directly; any other spec collects and re-sorts.
func (s *TreapStore) List(ctx context.Context, limit int, sortSpec []SortKey) ([]model.ScoreRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	if limit < 0 {
		metrics.RecordErrorByComponent("repository", "negative_limit")
		return nil, ErrNegativeLimit
	}
	if err := validateSort(sortSpec); err != nil {
		metrics.RecordErrorByComponent("repository", "invalid_sort")
		return nil, err
	}
	if limit == 0 {
		return []model.ScoreRecord{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if isDefaultSort(sortSpec) {
		out := make([]model.ScoreRecord, 0, limit)
		collectTopN(s.root, limit, s.byID, &out)
		return out, nil
	}

	all := make([]model.ScoreRecord, 0, len(s.byID))
	collectAll(s.root, s.byID, &all)
	sortRecords(all, sortSpec)
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// Delete implements Store.Delete. Unknown ids are skipped; deleting the
// same id twice removes it once.
func (s *TreapStore) Delete(ctx context.Context, ids []string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	start := time.Now()
	defer func() {
		metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.Lock()
	removed := 0
	for _, id := range ids {
		rec, ok := s.byID[id]
		if !ok {
			continue
		}
		s.root = deleteNode(s.root, id, rec.points, rec.createdAt)
		delete(s.byID, id)
		removed++
	}
	count := len(s.byID)
	s.mu.Unlock()

	if removed > 0 {
		metrics.RecordScoresDeleted(removed)
		metrics.UpdateRepositoryRecords(count)
	}
	return removed, nil
}

// Count returns the total number of records.
func (s *TreapStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// validateSort rejects unknown fields or directions before any traversal.
func validateSort(spec []SortKey) error {
	for _, k := range spec {
		switch k.Field {
		case FieldPoints, FieldCreatedAt:
		default:
			return ErrInvalidSortField
		}
		switch k.Direction {
		case Asc, Desc:
		default:
			return ErrInvalidSortField
		}
	}
	return nil
}

// isDefaultSort reports whether spec is empty or equals DefaultSort.
func isDefaultSort(spec []SortKey) bool {
	if len(spec) == 0 {
		return true
	}
	def := DefaultSort()
	if len(spec) != len(def) {
		return false
	}
	for i := range spec {
		if spec[i] != def[i] {
			return false
		}
	}
	return true
}

// sortRecords applies a multi-key stable sort; id ASC is the final
// tie-break so listings stay deterministic.
func sortRecords(records []model.ScoreRecord, spec []SortKey) {
	sort.SliceStable(records, func(i, j int) bool {
		for _, k := range spec {
			switch k.Field {
			case FieldPoints:
				if records[i].Points != records[j].Points {
					if k.Direction == Asc {
						return records[i].Points < records[j].Points
					}
					return records[i].Points > records[j].Points
				}
			case FieldCreatedAt:
				if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
					if k.Direction == Asc {
						return records[i].CreatedAt.Before(records[j].CreatedAt)
					}
					return records[i].CreatedAt.After(records[j].CreatedAt)
				}
			}
		}
		return records[i].ID < records[j].ID
	})
}
