package handlers

// SelectZapsRequest confirms which pending zaps are billed. An empty list
// clears the Zapier selection.
type SelectZapsRequest struct {
	ZapIDs []string `json:"zapIds" validate:"required,max=1000,dive,required,max=256"`
}

// SavingsQuery holds the optional usage figures of a savings projection
type SavingsQuery struct {
	ExecsPerDay  *float64 `validate:"omitempty,gte=0,lte=100000"`
	SelfHostCost float64  `validate:"gte=0,lte=1000000"`
}

// PlatformParam is the platform path parameter
type PlatformParam struct {
	Platform string `validate:"required,oneof=make zapier n8n"`
}

// FileNameParam is the file name path parameter
type FileNameParam struct {
	FileName string `validate:"required,max=255"`
}

// ListQuotesQuery bounds quote listings
type ListQuotesQuery struct {
	Limit int `validate:"gte=1,lte=100"`
}
