package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/waterfall/pkg/observability"
	"github.com/matzehuels/waterfall/pkg/server"
)

type serveOpts struct {
	addr    string
	redis   string
	logFile string
	noCache bool
}

// serveCommand creates the serve command, which runs the HTTP chart API
// until the context is cancelled.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chart API over HTTP",
		Long: `Serve exposes bar preparation, one-shot rendering and live chart sessions
over HTTP. Rendered artifacts are cached in Redis when --redis (or
cache.redis_addr) is set, and in the file cache otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := cmd.Flags()
			if fs.Changed("addr") {
				c.Config.Server.Addr = opts.addr
			}
			if fs.Changed("redis") {
				c.Config.Cache.Addr = opts.redis
			}
			if fs.Changed("log-file") {
				c.Config.Log.File = opts.logFile
			}
			return c.runServe(cmd, opts.noCache)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&opts.redis, "redis", "", "redis address for the artifact cache (host:port)")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "also write logs to this rotating file")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, noCache bool) error {
	ctx := cmd.Context()
	logger, closer := newServeLogger(os.Stderr, c.Logger.GetLevel(), c.Config.Log)
	if closer != nil {
		defer closer.Close()
	}
	c.Logger = logger

	hooks := observability.NewLogHooks(logger)
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	srv := server.New(server.Config{
		Addr:         c.Config.Server.Addr,
		MaxBodyBytes: c.Config.Server.MaxBodyBytes,
		MergeMode:    c.Config.Server.mergeMode(),
	}, runner, logger)

	logger.Info("serving chart API", "addr", c.Config.Server.Addr, "cache", cacheKind(c.Config, noCache))
	return srv.ListenAndServe(ctx)
}

func cacheKind(cfg *Config, noCache bool) string {
	switch {
	case noCache:
		return "none"
	case cfg.Cache.Addr != "":
		return "redis"
	}
	return "file"
}
