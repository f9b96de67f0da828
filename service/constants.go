package service

import (
	"time"

	"relocation-calculator/domain"
)

const (
	DefaultVariant = domain.VariantSingle
	DefaultPolicy  = domain.PolicyAlternativePrice

	resultCacheTTL    = 24 * time.Hour
	resultCachePrefix = "relocation:result:"
	formCachePrefix   = "relocation:form:"
)
