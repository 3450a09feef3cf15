package config

import "github.com/spf13/pflag"

// ParseFlags registers the server's CLI surface on fs and applies any
// flags the caller set on top of cfg, POSIX-style (--port, --conf), the
// corpus's flag idiom rather than the stdlib flag package.
func ParseFlags(fs *pflag.FlagSet, args []string, cfg *Config) error {
	confPath := fs.String("conf", "", "path to a redis.conf-style configuration file")
	port := fs.Uint16("port", cfg.Port, "TCP port to listen on")
	bind := fs.String("bind", cfg.Bind, "address to bind the listener to")
	cleanup := fs.Uint32("cleanup-interval-seconds", cfg.CleanupIntervalSeconds, "seconds between maintenance sweeps")
	numDBs := fs.Uint8("num-databases", cfg.NumDatabases, "number of selectable databases")
	logLevel := fs.String("log-level", cfg.LogLevel, "trace, info, warn, error, or critical")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *confPath != "" {
		loaded, err := Load(*confPath)
		if err != nil {
			return err
		}
		*cfg = *loaded
	}

	if fs.Changed("port") {
		cfg.Port = *port
	}
	if fs.Changed("bind") {
		cfg.Bind = *bind
	}
	if fs.Changed("cleanup-interval-seconds") {
		cfg.CleanupIntervalSeconds = *cleanup
	}
	if fs.Changed("num-databases") {
		cfg.NumDatabases = *numDBs
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = *logLevel
	}
	return nil
}
