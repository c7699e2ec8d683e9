package person

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/triska-dev/person-registry/internal/infrastructure/cache"
	"github.com/triska-dev/person-registry/internal/infrastructure/logging"
)

// listCacheKey holds the cached full listing. Mutations invalidate it.
const listCacheKey = "person:all"

// QueryService serves the read side of the person registry. The full
// listing is cached; everything else goes straight to the store.
type QueryService struct {
	repo     Repository
	cache    *cache.Client
	logger   *logging.Logger
	listTTL  time.Duration
	maxSize  int
	pageSize int
}

// QueryConfig carries the tunables for a QueryService.
type QueryConfig struct {
	ListTTL         time.Duration
	DefaultPageSize int
	MaxPageSize     int
}

// NewQueryService creates a query service over the given repository.
// The cache client may be disabled; lookups then always hit the store.
func NewQueryService(repo Repository, c *cache.Client, logger *logging.Logger, cfg QueryConfig) *QueryService {
	return &QueryService{
		repo:     repo,
		cache:    c,
		logger:   logger,
		listTTL:  cfg.ListTTL,
		maxSize:  cfg.MaxPageSize,
		pageSize: cfg.DefaultPageSize,
	}
}

// List returns every person record, serving from the cache when a
// fresh entry exists. Cache failures degrade to a store read.
func (s *QueryService) List(ctx context.Context) ([]Person, error) {
	var cached []Person
	hit, err := s.cache.GetJSON(ctx, listCacheKey, &cached)
	if err != nil {
		s.logger.Warn("list cache read failed", "error", err)
	}
	if hit {
		return cached, nil
	}

	persons, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetJSON(ctx, listCacheKey, persons, s.listTTL); err != nil {
		s.logger.Warn("list cache write failed", "error", err)
	}
	return persons, nil
}

// GetByID returns a single person record.
func (s *QueryService) GetByID(ctx context.Context, id int64) (*Person, error) {
	return s.repo.GetByID(ctx, id)
}

// ListPage returns one page of person records with totals. Page size
// zero falls back to the configured default.
func (s *QueryService) ListPage(ctx context.Context, req PageRequest) (Page, error) {
	if req.Size == 0 {
		req.Size = s.pageSize
	}
	if err := req.Validate(s.maxSize); err != nil {
		return Page{}, err
	}

	content, err := s.repo.ListPage(ctx, req)
	if err != nil {
		return Page{}, err
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return Page{}, err
	}
	return NewPage(content, req, total), nil
}

// ListByGender returns all persons matching the gender, parsed
// case-insensitively. Unrecognised values match nothing: stored
// genders are always canonical, so the query returns an empty list
// rather than an error.
func (s *QueryService) ListByGender(ctx context.Context, raw string) ([]Person, error) {
	gender, err := ParseGender(raw)
	if err != nil {
		gender = Gender(strings.ToLower(strings.TrimSpace(raw)))
	}
	return s.repo.ListByGender(ctx, gender)
}

// CommandService serves the write side: create, update, delete. Every
// successful mutation invalidates the cached listing.
type CommandService struct {
	repo     Repository
	cache    *cache.Client
	logger   *logging.Logger
	validate *validator.Validate
}

// NewCommandService creates a command service over the given repository.
func NewCommandService(repo Repository, c *cache.Client, logger *logging.Logger) *CommandService {
	return &CommandService{
		repo:     repo,
		cache:    c,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Create validates the input and inserts a new person record.
func (s *CommandService) Create(ctx context.Context, in CreateInput) (*Person, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("validating person: %w", err)
	}
	gender, err := ParseGender(in.Gender)
	if err != nil {
		return nil, err
	}

	p := &Person{
		Name:   in.Name,
		Email:  in.Email,
		Gender: gender,
		Age:    in.Age,
		Mobile: in.Mobile,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.invalidateList(ctx)
	return p, nil
}

// Update applies a partial update to an existing person record.
func (s *CommandService) Update(ctx context.Context, id int64, in UpdateInput) (*Person, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("validating person: %w", err)
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Email != nil {
		p.Email = *in.Email
	}
	if in.Gender != nil {
		gender, err := ParseGender(*in.Gender)
		if err != nil {
			return nil, err
		}
		p.Gender = gender
	}
	if in.Age != nil {
		p.Age = *in.Age
	}
	if in.Mobile != nil {
		p.Mobile = *in.Mobile
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.invalidateList(ctx)
	return p, nil
}

// Delete removes a person record.
func (s *CommandService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateList(ctx)
	return nil
}

func (s *CommandService) invalidateList(ctx context.Context) {
	if err := s.cache.Delete(ctx, listCacheKey); err != nil {
		s.logger.Warn("list cache invalidation failed", "error", err)
	}
}
