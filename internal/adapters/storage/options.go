package storage

type options struct {
	dir string
	dsn string
}

func defaultOptions() options {
	return options{dir: "./data"}
}

// Option configures Open.
type Option func(*options)

// WithDir sets the directory of the file backend.
func WithDir(dir string) Option {
	return func(o *options) {
		if dir != "" {
			o.dir = dir
		}
	}
}

// WithDSN sets the connection string of the postgres backend.
func WithDSN(dsn string) Option {
	return func(o *options) {
		if dsn != "" {
			o.dsn = dsn
		}
	}
}
