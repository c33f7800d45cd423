package cmd

import (
	"context"

	"github.com/foomo/keel"
	"github.com/foomo/keel/healthz"
	keelhttp "github.com/foomo/keel/net/http"
	"github.com/foomo/keel/net/http/middleware"
	"github.com/foomo/keel/service"
	"github.com/foomo/topbar/pkg/handler"
	"github.com/foomo/topbar/pkg/repo"
	"github.com/foomo/topbar/pkg/style"
	"github.com/foomo/topbar/pkg/utils"
	"github.com/foomo/topbar/pkg/walker"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func NewHTTPCommand() *cobra.Command {
	v := newViper()
	service.DefaultHTTPPProfAddr = ":6060"

	cmd := &cobra.Command{
		Use:   "http <url>",
		Short: "Start http server",
		Args:  cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			var comps []string
			if len(args) == 0 {
				comps = cobra.AppendActiveHelp(comps, "You must specify the URL of the menu document")
			} else {
				comps = cobra.AppendActiveHelp(comps, "This command does not take any more arguments")
			}
			return comps, cobra.ShellCompDirectiveNoFileComp
		},
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if !utils.IsValidURL(args[0]) {
				return errors.Errorf("invalid menu document url %q", args[0])
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := style.ParseMode(styleModeFlag(v))
			if err != nil {
				return err
			}

			svr := keel.NewServer(
				keel.WithHTTPPrometheusService(servicePrometheusEnabledFlag(v)),
				keel.WithHTTPHealthzService(serviceHealthzEnabledFlag(v)),
				keel.WithPrometheusMeter(servicePrometheusEnabledFlag(v)),
				keel.WithGracefulPeriod(gracefulPeriodFlag(v)),
				keel.WithOTLPGRPCTracer(otelEnabledFlag(v)),
				keel.WithHTTPPProfService(servicePProfEnabledFlag(v)),
			)

			l := svr.Logger()

			storage, err := createStorage(cmd.Context(), v, l)
			if err != nil {
				return errors.Wrap(err, "failed to create storage")
			}

			history, err := repo.NewHistory(l.Named("inst"),
				repo.HistoryWithStorage(storage),
				repo.HistoryWithHistoryLimit(historyLimitFlag(v)),
			)
			if err != nil {
				return errors.Wrap(err, "failed to create history")
			}

			r := repo.New(l.Named("inst"),
				args[0],
				history,
				repo.WithHTTPClient(
					keelhttp.NewHTTPClient(
						keelhttp.HTTPClientWithTimeout(repositoryTimeoutFlag(v)),
						keelhttp.HTTPClientWithTelemetry(),
					),
				),
				repo.WithPollInterval(pollIntervalFlag(v)),
				repo.WithPoll(pollFlag(v)),
			)

			w := walker.New(l.Named("inst"),
				walker.WithResolver(r),
				walker.WithHomeURL(homeURLFlag(v)),
				walker.WithMenuEditorURL(menuEditorURLFlag(v)),
			)

			isLoadedHealtherFn := healthz.NewHealthzerFn(func(ctx context.Context) error {
				if !r.Loaded() {
					return errors.New("menus not loaded yet")
				}
				return nil
			})
			svr.AddStartupHealthzers(isLoadedHealtherFn)
			svr.AddReadinessHealthzers(isLoadedHealtherFn)

			svr.AddClosers(func(ctx context.Context) error {
				return history.Close()
			})

			// the handler registers its cache flush on the repo, create it before starting the repo
			h := handler.NewHTTP(l.Named("inst"), r, w,
				style.New(mode, style.WithHeight(styleHeightFlag(v))),
				handler.WithPath(basePathFlag(v)),
				handler.WithCacheExpiration(cacheExpirationFlag(v)),
			)

			svr.AddServices(
				service.NewGoRoutine(l.Named("go.repo"), "repo", func(ctx context.Context, l *zap.Logger) error {
					return r.Start(ctx)
				}),
				service.NewHTTP(l.Named("svc.http"), "http", addressFlag(v),
					h,
					middleware.Telemetry(),
					middleware.Logger(),
					middleware.GZip(middleware.GZipWithLevel(gzipLevelFlag(v))),
					middleware.Recover(),
				),
			)

			svr.Run()
			return nil
		},
	}

	flags := cmd.Flags()
	addAddressFlag(flags, v)
	addBasePathFlag(flags, v)
	addPollFlag(flags, v)
	addPollIntervalFlag(flags, v)
	addHistoryDirFlag(flags, v)
	addHistoryLimitFlag(flags, v)
	addStorageTypeFlag(flags, v)
	addStorageBlobBucketFlag(flags, v)
	addStorageBlobPrefixFlag(flags, v)
	addStorageSQLitePathFlag(flags, v)
	addRepositoryTimeoutFlag(flags, v)
	addCacheExpirationFlag(flags, v)
	addStyleModeFlag(flags, v)
	addStyleHeightFlag(flags, v)
	addHomeURLFlag(flags, v)
	addMenuEditorURLFlag(flags, v)
	addGracefulPeriodFlag(flags, v)
	addGzipLevelFlag(flags, v)
	addOtelEnabledFlag(flags, v)
	addServiceHealthzEnabledFlag(flags, v)
	addServicePrometheusEnabledFlag(flags, v)
	addServicePProfEnabledFlag(flags, v)

	return cmd
}

// createStorage creates the snapshot backend selected by the flags
func createStorage(ctx context.Context, v *viper.Viper, l *zap.Logger) (repo.Storage, error) {
	cfg := repo.StorageConfig{
		Type:       storageTypeFlag(v),
		Dir:        historyDirFlag(v),
		BucketURL:  storageBlobBucketFlag(v),
		BlobPrefix: storageBlobPrefixFlag(v),
		SQLitePath: storageSQLitePathFlag(v),
	}

	if cfg.Type != repo.StorageTypeBlob && (cfg.BucketURL != "" || cfg.BlobPrefix != "") {
		l.Warn("blob storage flags are set but storage-type is not 'blob'; blob config will be ignored",
			zap.String("storage-type", cfg.Type),
			zap.String("blob-bucket", cfg.BucketURL),
			zap.String("blob-prefix", cfg.BlobPrefix),
		)
	}

	switch cfg.Type {
	case repo.StorageTypeBlob:
		provider := utils.BlobProvider(cfg.BucketURL)
		if provider == "" {
			return nil, errors.Errorf("unsupported blob storage url %q; supported schemes: gs://, s3://, azblob://, file://", cfg.BucketURL)
		}
		l.Info("using blob storage",
			zap.String("bucket", cfg.BucketURL),
			zap.String("prefix", cfg.BlobPrefix),
			zap.String("provider", provider),
		)
	case repo.StorageTypeSQLite:
		l.Info("using sqlite storage", zap.String("path", cfg.SQLitePath))
	default:
		l.Info("using filesystem storage", zap.String("dir", cfg.Dir))
	}

	return repo.NewStorage(ctx, cfg)
}
