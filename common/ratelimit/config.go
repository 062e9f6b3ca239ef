package ratelimit

// TierConfig defines rate limits for each upload tier
type TierConfig struct {
	Tier          UploadTier
	Limit         int64  // Requests allowed per window
	WindowSeconds int    // Time window in seconds
	Description   string // Human-readable description
}

// GlobalConfig contains global service-wide limits
type GlobalConfig struct {
	Limit         int64 // Total requests per window (all sessions)
	WindowSeconds int
}

// Default global configuration
var DefaultGlobalConfig = GlobalConfig{
	Limit:         300,
	WindowSeconds: 60,
}

// TierConfigs derives per-tier limits from the small-upload limit.
// Larger uploads cost more to parse so they get a smaller share.
func TierConfigs(baseLimit int64, windowSeconds int) map[UploadTier]TierConfig {
	atLeastOne := func(v int64) int64 {
		if v < 1 {
			return 1
		}
		return v
	}

	return map[UploadTier]TierConfig{
		TierSmall: {
			Tier:          TierSmall,
			Limit:         atLeastOne(baseLimit),
			WindowSeconds: windowSeconds,
			Description:   "Uploads under 1 MiB",
		},
		TierMedium: {
			Tier:          TierMedium,
			Limit:         atLeastOne(baseLimit / 3),
			WindowSeconds: windowSeconds,
			Description:   "Uploads from 1 MiB to 10 MiB",
		},
		TierLarge: {
			Tier:          TierLarge,
			Limit:         atLeastOne(baseLimit / 10),
			WindowSeconds: windowSeconds,
			Description:   "Uploads over 10 MiB",
		},
	}
}

// LimitForTier returns the config for tier, falling back to the most
// restrictive tier
func LimitForTier(configs map[UploadTier]TierConfig, tier UploadTier) TierConfig {
	if cfg, ok := configs[tier]; ok {
		return cfg
	}
	return configs[TierLarge]
}
