package cmd

import (
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func logLevelFlag(v *viper.Viper) string {
	return v.GetString("log.level")
}

func addLogLevelFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("log-level", "info", "log level")
	_ = v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = v.BindEnv("log.level", "LOG_LEVEL")
}

func logFormatFlag(v *viper.Viper) string {
	return v.GetString("log.format")
}

func addLogFormatFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("log-format", "json", "log format")
	_ = v.BindPFlag("log.format", flags.Lookup("log-format"))
	_ = v.BindEnv("log.format", "LOG_FORMAT")
}

func addressFlag(v *viper.Viper) string {
	return v.GetString("address")
}

func addAddressFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("address", ":8080", "Address to bind to (host:port)")
	_ = v.BindPFlag("address", flags.Lookup("address"))
	_ = v.BindEnv("address", "TOPBAR_ADDRESS")
}

func basePathFlag(v *viper.Viper) string {
	return v.GetString("base_path")
}

func addBasePathFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("base-path", "/topbar", "Base path to export the webserver on")
	_ = v.BindPFlag("base_path", flags.Lookup("base-path"))
	_ = v.BindEnv("base_path", "TOPBAR_BASE_PATH")
}

func pollFlag(v *viper.Viper) bool {
	return v.GetBool("poll.enabled")
}

func addPollFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("poll", false, "If true, the url arg is polled for the url of the latest menu document")
	_ = v.BindPFlag("poll.enabled", flags.Lookup("poll"))
	_ = v.BindEnv("poll.enabled", "TOPBAR_POLL")
}

func pollIntervalFlag(v *viper.Viper) time.Duration {
	return v.GetDuration("poll.interval")
}

func addPollIntervalFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Duration("poll-interval", time.Minute, "Specifies the poll interval")
	_ = v.BindPFlag("poll.interval", flags.Lookup("poll-interval"))
	_ = v.BindEnv("poll.interval", "TOPBAR_POLL_INTERVAL")
}

func historyDirFlag(v *viper.Viper) string {
	return v.GetString("history.dir")
}

func addHistoryDirFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("history-dir", "/var/lib/topbar", "Where to put menu snapshots when using filesystem storage")
	_ = v.BindPFlag("history.dir", flags.Lookup("history-dir"))
	_ = v.BindEnv("history.dir", "TOPBAR_HISTORY_DIR")
}

func historyLimitFlag(v *viper.Viper) int {
	return v.GetInt("history.limit")
}

func addHistoryLimitFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Int("history-limit", 2, "Number of snapshots to keep")
	_ = v.BindPFlag("history.limit", flags.Lookup("history-limit"))
	_ = v.BindEnv("history.limit", "TOPBAR_HISTORY_LIMIT")
}

func storageTypeFlag(v *viper.Viper) string {
	return v.GetString("storage.type")
}

func addStorageTypeFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("storage-type", "filesystem", "Snapshot storage: filesystem, blob or sqlite")
	_ = v.BindPFlag("storage.type", flags.Lookup("storage-type"))
	_ = v.BindEnv("storage.type", "TOPBAR_STORAGE_TYPE")
}

func storageBlobBucketFlag(v *viper.Viper) string {
	return v.GetString("storage.blob.bucket")
}

func addStorageBlobBucketFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("storage-blob-bucket", "", "Bucket url for blob storage, e.g. gs://my-bucket")
	_ = v.BindPFlag("storage.blob.bucket", flags.Lookup("storage-blob-bucket"))
	_ = v.BindEnv("storage.blob.bucket", "TOPBAR_STORAGE_BLOB_BUCKET")
}

func storageBlobPrefixFlag(v *viper.Viper) string {
	return v.GetString("storage.blob.prefix")
}

func addStorageBlobPrefixFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("storage-blob-prefix", "", "Key prefix inside the blob bucket")
	_ = v.BindPFlag("storage.blob.prefix", flags.Lookup("storage-blob-prefix"))
	_ = v.BindEnv("storage.blob.prefix", "TOPBAR_STORAGE_BLOB_PREFIX")
}

func storageSQLitePathFlag(v *viper.Viper) string {
	return v.GetString("storage.sqlite.path")
}

func addStorageSQLitePathFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("storage-sqlite-path", "/var/lib/topbar/topbar.db", "Database file for sqlite storage")
	_ = v.BindPFlag("storage.sqlite.path", flags.Lookup("storage-sqlite-path"))
	_ = v.BindEnv("storage.sqlite.path", "TOPBAR_STORAGE_SQLITE_PATH")
}

func repositoryTimeoutFlag(v *viper.Viper) time.Duration {
	return v.GetDuration("repository.timeout")
}

func addRepositoryTimeoutFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Duration("repository-timeout", 30*time.Second, "Timeout for fetching the menu document")
	_ = v.BindPFlag("repository.timeout", flags.Lookup("repository-timeout"))
	_ = v.BindEnv("repository.timeout", "TOPBAR_REPOSITORY_TIMEOUT")
}

func cacheExpirationFlag(v *viper.Viper) time.Duration {
	return v.GetDuration("cache.expiration")
}

func addCacheExpirationFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Duration("cache-expiration", 10*time.Minute, "How long rendered menus are cached, 0 disables the cache")
	_ = v.BindPFlag("cache.expiration", flags.Lookup("cache-expiration"))
	_ = v.BindEnv("cache.expiration", "TOPBAR_CACHE_EXPIRATION")
}

func styleModeFlag(v *viper.Viper) string {
	return v.GetString("style.mode")
}

func addStyleModeFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("style-mode", "sticky", "Top bar positioning: none, sticky or fixed")
	_ = v.BindPFlag("style.mode", flags.Lookup("style-mode"))
	_ = v.BindEnv("style.mode", "TOPBAR_STYLE_MODE")
}

func styleHeightFlag(v *viper.Viper) string {
	return v.GetString("style.height")
}

func addStyleHeightFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("style-height", "40px", "Top bar height, used by the fixed mode")
	_ = v.BindPFlag("style.height", flags.Lookup("style-height"))
	_ = v.BindEnv("style.height", "TOPBAR_STYLE_HEIGHT")
}

func homeURLFlag(v *viper.Viper) string {
	return v.GetString("home_url")
}

func addHomeURLFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("home-url", "/", "Link target of the fallback home item")
	_ = v.BindPFlag("home_url", flags.Lookup("home-url"))
	_ = v.BindEnv("home_url", "TOPBAR_HOME_URL")
}

func menuEditorURLFlag(v *viper.Viper) string {
	return v.GetString("menu_editor_url")
}

func addMenuEditorURLFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("menu-editor-url", "/admin/nav-menus", "Link target of the fallback customise item")
	_ = v.BindPFlag("menu_editor_url", flags.Lookup("menu-editor-url"))
	_ = v.BindEnv("menu_editor_url", "TOPBAR_MENU_EDITOR_URL")
}

func gracefulPeriodFlag(v *viper.Viper) time.Duration {
	return v.GetDuration("graceful_period")
}

func addGracefulPeriodFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Duration("graceful-period", 0, "Graceful period before shutting down")
	_ = v.BindPFlag("graceful_period", flags.Lookup("graceful-period"))
	_ = v.BindEnv("graceful_period", "TOPBAR_GRACEFUL_PERIOD")
}

func gzipLevelFlag(v *viper.Viper) int {
	return v.GetInt("gzip.level")
}

func addGzipLevelFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Int("gzip-level", 5, "Compression level of http responses")
	_ = v.BindPFlag("gzip.level", flags.Lookup("gzip-level"))
	_ = v.BindEnv("gzip.level", "TOPBAR_GZIP_LEVEL")
}

func serviceHealthzEnabledFlag(v *viper.Viper) bool {
	return v.GetBool("service.healthz.enabled")
}

func addServiceHealthzEnabledFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("service-healthz-enabled", false, "Enable healthz service")
	_ = v.BindPFlag("service.healthz.enabled", flags.Lookup("service-healthz-enabled"))
}

func servicePrometheusEnabledFlag(v *viper.Viper) bool {
	return v.GetBool("service.prometheus.enabled")
}

func addServicePrometheusEnabledFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("service-prometheus-enabled", false, "Enable prometheus service")
	_ = v.BindPFlag("service.prometheus.enabled", flags.Lookup("service-prometheus-enabled"))
}

func servicePProfEnabledFlag(v *viper.Viper) bool {
	return v.GetBool("service.pprof.enabled")
}

func addServicePProfEnabledFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("service-pprof-enabled", false, "Enable pprof service")
	_ = v.BindPFlag("service.pprof.enabled", flags.Lookup("service-pprof-enabled"))
}

func otelEnabledFlag(v *viper.Viper) bool {
	return v.GetBool("otel.enabled")
}

func addOtelEnabledFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("otel-enabled", false, "Enable otel service")
	_ = v.BindPFlag("otel.enabled", flags.Lookup("otel-enabled"))
	_ = v.BindEnv("otel.enabled", "OTEL_ENABLED")
}

func locationFlag(v *viper.Viper) string {
	return v.GetString("location")
}

func addLocationFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("location", "primary", "Menu location to render")
	_ = v.BindPFlag("location", flags.Lookup("location"))
}

func uriFlag(v *viper.Viper) string {
	return v.GetString("uri")
}

func addURIFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("uri", "", "Current request path, marks active items")
	_ = v.BindPFlag("uri", flags.Lookup("uri"))
}

func maxDepthFlag(v *viper.Viper) int {
	return v.GetInt("max_depth")
}

func addMaxDepthFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Int("max-depth", 0, "Levels to render, 0 renders all, negative renders flat")
	_ = v.BindPFlag("max_depth", flags.Lookup("max-depth"))
}

func groupsFlag(v *viper.Viper) []string {
	return v.GetStringSlice("groups")
}

func addGroupsFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.StringSlice("groups", nil, "Groups of the requesting user")
	_ = v.BindPFlag("groups", flags.Lookup("groups"))
}

func adminFlag(v *viper.Viper) bool {
	return v.GetBool("admin")
}

func addAdminFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("admin", false, "Render for the admin area")
	_ = v.BindPFlag("admin", flags.Lookup("admin"))
}

func adminBarFlag(v *viper.Viper) bool {
	return v.GetBool("admin_bar")
}

func addAdminBarFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("admin-bar", false, "The admin bar is showing")
	_ = v.BindPFlag("admin_bar", flags.Lookup("admin-bar"))
}
