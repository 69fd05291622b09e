// Package puppet resolves task descriptors against the Puppet Server v3 API.
package puppet

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.trai.ch/zerr"
	"go.trellis.sh/taskrun/internal/core/domain"
	"go.trellis.sh/taskrun/internal/core/ports"
)

// metadataCacheSize bounds the descriptor memo. Descriptors are small and
// immutable per environment deploy, so a modest cache removes most lookups.
const metadataCacheSize = 128

// Resolver implements ports.TaskResolver.
type Resolver struct {
	fetcher ports.Fetcher
	logger  ports.Logger
	memo    *lru.Cache[string, *domain.TaskDescriptor]
}

// NewResolver creates a resolver over the given fetcher.
func NewResolver(fetcher ports.Fetcher, logger ports.Logger) (*Resolver, error) {
	memo, err := lru.New[string, *domain.TaskDescriptor](metadataCacheSize)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create metadata cache")
	}

	return &Resolver{
		fetcher: fetcher,
		logger:  logger,
		memo:    memo,
	}, nil
}

// Metadata fetches the descriptor for a qualified task name. Successful
// lookups are memoized per task and environment.
func (r *Resolver) Metadata(ctx context.Context, qname, environment string) (*domain.TaskDescriptor, error) {
	if qname == "" {
		return nil, domain.ErrInvalidTaskName
	}

	key := qname + "@" + environment
	if desc, ok := r.memo.Get(key); ok {
		return desc, nil
	}

	module, task := domain.ParseName(qname)

	r.logger.Debug(fmt.Sprintf("fetching metadata for %s/%s from environment %s", module, task, environment))

	path := fmt.Sprintf("/puppet/v3/tasks/%s/%s?environment=%s",
		url.PathEscape(module), url.PathEscape(task), url.QueryEscape(environment))

	body, err := r.get(ctx, path, domain.ErrMetadataFetchFailed)
	if err != nil {
		return nil, zerr.With(err, "task", qname)
	}

	desc := &domain.TaskDescriptor{}
	if err := json.Unmarshal(body, desc); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrMetadataFetchFailed.Error()), "task", qname)
	}

	r.memo.Add(key, desc)

	return desc, nil
}

// List fetches the tasks known to an environment, sorted by name ascending.
func (r *Resolver) List(ctx context.Context, environment string) ([]domain.TaskInfo, error) {
	path := "/puppet/v3/tasks?environment=" + url.QueryEscape(environment)

	body, err := r.get(ctx, path, domain.ErrTaskListFailed)
	if err != nil {
		return nil, err
	}

	var tasks []domain.TaskInfo
	if err := json.Unmarshal(body, &tasks); err != nil {
		return nil, zerr.Wrap(err, domain.ErrTaskListFailed.Error())
	}

	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].Name < tasks[j].Name
	})

	return tasks, nil
}

func (r *Resolver) get(ctx context.Context, path string, kind error) ([]byte, error) {
	resp, err := r.fetcher.Get(ctx, path, nil)
	if err != nil {
		return nil, zerr.Wrap(err, kind.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.Code != 200 {
		return nil, zerr.With(kind, "code", resp.Code)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, zerr.Wrap(err, kind.Error())
	}

	return body, nil
}

var _ ports.TaskResolver = (*Resolver)(nil)
