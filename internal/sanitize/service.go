package sanitize

import (
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/muesli/cache2go"
	"github.com/zeebo/blake3"

	"github.com/dgallion1/textwash/internal/doctree"
	"github.com/dgallion1/textwash/internal/options"
	"github.com/dgallion1/textwash/internal/restrict"
)

// Service runs the full pipeline over markup strings. Results are
// deterministic per (markup, options), so they are cached by content
// hash with a TTL.
type Service struct {
	cache    *cache2go.CacheTable
	cacheTTL time.Duration
	stats    *PassStats
	log      *slog.Logger
}

// NewService creates a pipeline service. cacheTTL <= 0 disables caching.
func NewService(log *slog.Logger, cacheTTL time.Duration) *Service {
	return &Service{
		cache:    cache2go.Cache("textwash-results"),
		cacheTTL: cacheTTL,
		stats:    NewPassStats(time.Hour),
		log:      log,
	}
}

// Sanitize runs markup through normalize -> clean -> restrict. The only
// error source is the fragment parser; the passes themselves are total.
func (s *Service) Sanitize(markup string, opts options.Options) (string, error) {
	key := cacheKey(markup, opts)
	if s.cacheTTL > 0 {
		if item, err := s.cache.Value(key); err == nil {
			return item.Data().(string), nil
		}
	}

	start := time.Now()
	out, err := Run(markup, opts)
	if err != nil {
		return "", err
	}
	s.stats.Record(time.Since(start).Milliseconds())

	if s.cacheTTL > 0 {
		s.cache.Add(key, s.cacheTTL, out)
	}
	return out, nil
}

// Stats returns a snapshot of recent pass latencies.
func (s *Service) Stats() StatsSnapshot {
	return s.stats.Snapshot()
}

// Run executes the pipeline without caching or stats. Exposed for
// callers that own their own scheduling, such as the CLI.
func Run(markup string, opts options.Options) (string, error) {
	root, err := doctree.ParseBody(markup)
	if err != nil {
		return "", err
	}
	NormalizeTree(root, opts)
	cleaned := CleanMarkup(doctree.Render(root), opts)
	return restrict.Restrict(cleaned), nil
}

func cacheKey(markup string, opts options.Options) string {
	sum := blake3.Sum256([]byte(opts.Fingerprint() + "\x00" + markup))
	return hex.EncodeToString(sum[:])
}
