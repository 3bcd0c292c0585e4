package engine

// DefaultStatementCacheSize is the number of parsed statements kept by default.
const DefaultStatementCacheSize = 256

type options struct {
	statementCacheSize int64
	queryIDs           bool
	requireSemicolon   bool
}

func defaultOptions() options {
	return options{
		statementCacheSize: DefaultStatementCacheSize,
		queryIDs:           true,
	}
}

// Option configures an Engine.
type Option func(*options)

// WithStatementCache sets how many parsed statements are cached.
// Zero or less disables the cache.
func WithStatementCache(size int) Option {
	return func(o *options) {
		o.statementCacheSize = int64(size)
	}
}

// WithQueryIDs controls whether each query gets a fresh id in its log
// records. Contexts that already carry an id keep it.
func WithQueryIDs(enabled bool) Option {
	return func(o *options) {
		o.queryIDs = enabled
	}
}

// WithRequireSemicolon makes Query reject statements that do not end in ';'.
// The interactive shell uses this.
func WithRequireSemicolon(required bool) Option {
	return func(o *options) {
		o.requireSemicolon = required
	}
}
