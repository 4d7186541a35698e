package arithexpr

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/vk/specarith/internal/workspace"
)

// DefaultCacheTTL bounds how long an evaluated outcome is reused.
const DefaultCacheTTL = 10 * time.Minute

// CachedValidator memoizes the evaluation stage of a Validator per workspace
// revision and set of known data objects, so reopening an editor on an
// unchanged expression does not recompute it. Name checks are cheap and
// always rerun.
type CachedValidator struct {
	inner  *Validator
	rev    workspace.Revisioner
	cache  *gocache.Cache
	logger *slog.Logger
}

// NewCachedValidator wraps inner. rev must change whenever the set of known
// data objects does; entries expire after ttl.
func NewCachedValidator(inner *Validator, rev workspace.Revisioner, ttl time.Duration, logger *slog.Logger) *CachedValidator {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedValidator{
		inner:  inner,
		rev:    rev,
		cache:  gocache.New(ttl, 2*ttl),
		logger: logger,
	}
}

// Validate has the same contract as Validator.Validate.
func (c *CachedValidator) Validate(name, raw string, known []workspace.DataObject, existing []string, addMode bool) Outcome {
	if out, done := precheck(name, raw, existing, addMode); done {
		return out
	}

	key := cacheKey(c.rev.Revision(), known, raw)
	if cached, found := c.cache.Get(key); found {
		if out, ok := cached.(Outcome); ok {
			c.logger.Debug("Validation cache hit.", "name", strings.TrimSpace(name))
			return out
		}
	}

	out := c.inner.evaluate(raw, known)
	c.cache.SetDefault(key, out)
	return out
}

// cacheKey identifies an evaluation by revision, the identifiers and names of
// the known objects, and the trimmed expression.
func cacheKey(revision uint64, known []workspace.DataObject, raw string) string {
	objs := make([]string, len(known))
	for i, obj := range known {
		objs[i] = obj.Identifier.String() + "=" + obj.Name
	}
	sort.Strings(objs)
	return fmt.Sprintf("%d\x00%s\x00%s", revision, strings.Join(objs, "\x01"), strings.TrimSpace(raw))
}

// Len returns the number of cached outcomes, expired ones included until the
// janitor runs.
func (c *CachedValidator) Len() int {
	return c.cache.ItemCount()
}

// Flush drops every cached outcome.
func (c *CachedValidator) Flush() {
	c.cache.Flush()
}
