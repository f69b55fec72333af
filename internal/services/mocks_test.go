package services

import (
	"context"
	"errors"
	"sync"

	"github.com/vvka-141/taxlien/pkg/taxlien"
)

// fakeConn is a PooledConnection whose Querier is never used; the fake
// repository ignores it.
type fakeConn struct {
	taxlien.Querier
	pool *fakePool
}

func (c *fakeConn) Release() {
	c.pool.mu.Lock()
	defer c.pool.mu.Unlock()
	c.pool.released++
	c.pool.open--
}

type fakePool struct {
	mu         sync.Mutex
	acquired   int
	released   int
	open       int
	maxOpen    int
	closed     bool
	acquireErr error
}

func (p *fakePool) Acquire(context.Context) (taxlien.PooledConnection, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.acquireErr != nil {
		return nil, p.acquireErr
	}
	p.acquired++
	p.open++
	if p.open > p.maxOpen {
		p.maxOpen = p.open
	}
	return &fakeConn{pool: p}, nil
}

func (p *fakePool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
}

// fakeRepository stores rows in memory with the same conflict rules as the
// real tables.
type fakeRepository struct {
	calls      []string
	properties map[string]int64
	order      []string
	liens      map[string]taxlien.TaxLien
	nextID     int64

	failSchema       error
	failPropertyAt   int // 1-based insert number; 0 disables
	failLienAt       int
	propertyInserts  int
	lienInserts      int
	dropKeyOfAddress string
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		properties: make(map[string]int64),
		liens:      make(map[string]taxlien.TaxLien),
	}
}

var errInjected = errors.New("injected storage failure")

func (r *fakeRepository) EnsureSchema(context.Context) error {
	r.calls = append(r.calls, "schema")
	return r.failSchema
}

func (r *fakeRepository) InsertProperty(_ context.Context, p taxlien.Property) (bool, error) {
	r.calls = append(r.calls, "property")
	r.propertyInserts++
	if r.propertyInserts == r.failPropertyAt {
		return false, errInjected
	}
	if _, ok := r.properties[p.Address.String]; ok {
		return false, nil
	}
	r.nextID++
	r.properties[p.Address.String] = r.nextID
	r.order = append(r.order, p.Address.String)
	return true, nil
}

func (r *fakeRepository) PropertyKeys(context.Context) (map[string]int64, error) {
	r.calls = append(r.calls, "keys")
	keys := make(map[string]int64, len(r.properties))
	for addr, id := range r.properties {
		if addr != r.dropKeyOfAddress {
			keys[addr] = id
		}
	}
	return keys, nil
}

func (r *fakeRepository) InsertTaxLien(_ context.Context, l taxlien.TaxLien) (bool, error) {
	r.calls = append(r.calls, "lien")
	r.lienInserts++
	if r.lienInserts == r.failLienAt {
		return false, errInjected
	}
	if _, ok := r.liens[l.CertificateNumber.String]; ok {
		return false, nil
	}
	r.liens[l.CertificateNumber.String] = l
	return true, nil
}

type fakeFetcher struct {
	result taxlien.FetchResult
	err    error
}

func (f fakeFetcher) Fetch(context.Context) (taxlien.FetchResult, error) {
	return f.result, f.err
}

type fakeArchiver struct {
	paths   []string
	digests []string
	err     error
}

func (a *fakeArchiver) Archive(_ context.Context, path, sha256 string) (string, error) {
	a.paths = append(a.paths, path)
	a.digests = append(a.digests, sha256)
	if a.err != nil {
		return "", a.err
	}
	return "archive/" + path, nil
}

// recordingLogger keeps Info lines for assertions.
type recordingLogger struct {
	mu   sync.Mutex
	info []string
}

func (l *recordingLogger) Verbose(string, ...interface{}) {}
func (l *recordingLogger) Error(string, ...interface{})   {}
func (l *recordingLogger) Info(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.info = append(l.info, sprintf(format, args...))
}
