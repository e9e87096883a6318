package config

const (
	defaultPlexURL        = "http://localhost:32400"
	defaultRadarrURL      = "http://localhost:7878"
	defaultSonarrURL      = "http://localhost:8989"
	defaultTimeoutSeconds = 30
	defaultWebhookHost    = "0.0.0.0"
	defaultWebhookPort    = 9876
	defaultLockFile       = "~/.local/share/plexrr/webhook.lock"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Plex: Plex{
			URL:            defaultPlexURL,
			TimeoutSeconds: defaultTimeoutSeconds,
		},
		Radarr: Radarr{
			URL:            defaultRadarrURL,
			TimeoutSeconds: defaultTimeoutSeconds,
		},
		Sonarr: Sonarr{
			URL:            defaultSonarrURL,
			TimeoutSeconds: defaultTimeoutSeconds,
		},
		Webhooks: Webhooks{
			Host:     defaultWebhookHost,
			Port:     defaultWebhookPort,
			LockFile: defaultLockFile,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
