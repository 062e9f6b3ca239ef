package ratelimit

// UploadTier represents the rate limit tier of an upload request
type UploadTier string

const (
	TierSmall  UploadTier = "small"
	TierMedium UploadTier = "medium"
	TierLarge  UploadTier = "large"
)

const (
	mediumUploadBytes = 1 << 20
	largeUploadBytes  = 10 << 20
)

// InspectUpload classifies an upload by its declared body size.
// An unknown size (-1) is treated as large.
func InspectUpload(contentLength int64) UploadTier {
	switch {
	case contentLength < 0:
		return TierLarge
	case contentLength < mediumUploadBytes:
		return TierSmall
	case contentLength <= largeUploadBytes:
		return TierMedium
	default:
		return TierLarge
	}
}
