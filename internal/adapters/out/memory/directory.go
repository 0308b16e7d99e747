package memory

import (
	"context"

	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// PutCompany registers or replaces a directory record.
func (s *Store) PutCompany(c ports.Company) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.companies[c.ID] = c
}

func (s *Store) GetCompany(_ context.Context, id string) (ports.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.companies[id]
	if !ok {
		return ports.Company{}, errs.NewObjectNotFoundError("company", id)
	}
	return c, nil
}

func (s *Store) LookupCompanies(_ context.Context, ids []string) (map[string]ports.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]ports.Company, len(ids))
	for _, id := range ids {
		if c, ok := s.companies[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

// Directory exposes the company records as a ports.Directory.
func (s *Store) Directory() ports.Directory {
	return directory{store: s}
}

type directory struct {
	store *Store
}

func (d directory) Get(ctx context.Context, id string) (ports.Company, error) {
	return d.store.GetCompany(ctx, id)
}

func (d directory) Lookup(ctx context.Context, ids []string) (map[string]ports.Company, error) {
	return d.store.LookupCompanies(ctx, ids)
}
