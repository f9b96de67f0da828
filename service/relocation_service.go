package service

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/sirupsen/logrus"

	"relocation-calculator/domain"
	"relocation-calculator/repository"
)

type RelocationService struct {
	cache  repository.CacheRepository
	policy domain.InvoicePolicy
	logger *logrus.Entry
}

// NewRelocationService creates a RelocationService that derives invoices with
// the given policy and memoizes results in cache.
func NewRelocationService(
	cache repository.CacheRepository,
	policy domain.InvoicePolicy,
) *RelocationService {
	if policy == "" {
		policy = DefaultPolicy
	}
	return &RelocationService{
		cache:  cache,
		policy: policy,
		logger: logrus.WithField("component", "relocation-service"),
	}
}

func (s *RelocationService) Policy() domain.InvoicePolicy {
	return s.policy
}

// Calculate validates the raw form values of the variant and computes the
// result. Invalid input yields domain.ValidationErrors.
func (s *RelocationService) Calculate(
	ctx context.Context,
	variant domain.Variant,
	raw map[domain.Field]string,
) (domain.CalculationResult, error) {

	input, err := ValidateInput(variant, raw)
	if err != nil {
		return domain.CalculationResult{}, err
	}

	key := s.resultKey(input)
	if result, ok := s.cached(ctx, key); ok {
		return result, nil
	}

	result := Calculate(input, s.policy)
	s.logger.WithFields(logrus.Fields{
		"variant":      variant,
		"difference":   result.Difference.StringFixed(2),
		"guest_refund": result.GuestRefund.StringFixed(2),
		"invoice":      result.PropertyInvoice.StringFixed(2),
	}).Debug("calculated relocation")

	// Not critical if it fails
	if data, err := json.Marshal(result); err == nil {
		if err := s.cache.Set(ctx, key, string(data), resultCacheTTL); err != nil {
			s.logger.WithError(err).Warn("failed to cache relocation result")
		}
	}

	return result, nil
}

func (s *RelocationService) cached(ctx context.Context, key string) (domain.CalculationResult, bool) {
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.WithError(err).Warn("failed to read cached relocation result")
		return domain.CalculationResult{}, false
	}
	if !ok {
		return domain.CalculationResult{}, false
	}

	var result domain.CalculationResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		s.logger.WithError(err).Warn("discarding malformed cached relocation result")
		return domain.CalculationResult{}, false
	}
	return result, true
}

// resultKey fingerprints the normalized input together with the policy, so
// "1000" and "1000.00" share an entry.
func (s *RelocationService) resultKey(input domain.CalculationInput) string {
	parts := []string{
		string(s.policy),
		input.OriginalPrice.String(),
		input.AlternativePrice.String(),
		input.DiscountOnOriginal.String(),
		input.DiscountOnAlternative.String(),
	}
	sum := xxhash.Sum64String(strings.Join(parts, "|"))
	return resultCachePrefix + strconv.FormatUint(sum, 16)
}
