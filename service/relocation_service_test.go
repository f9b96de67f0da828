package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relocation-calculator/domain"
	"relocation-calculator/repository"
)

type MockCache struct {
	Data     map[string]string
	GetCalls int
	SetCalls int
	ForceErr error
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string]string)}
}

func (m *MockCache) Get(_ context.Context, key string) (string, bool, error) {
	m.GetCalls++
	if m.ForceErr != nil {
		return "", false, m.ForceErr
	}
	val, ok := m.Data[key]
	return val, ok, nil
}

func (m *MockCache) Set(_ context.Context, key string, value string, _ time.Duration) error {
	m.SetCalls++
	if m.ForceErr != nil {
		return m.ForceErr
	}
	m.Data[key] = value
	return nil
}

func (m *MockCache) Delete(_ context.Context, key string) error {
	if m.ForceErr != nil {
		return m.ForceErr
	}
	delete(m.Data, key)
	return nil
}

var _ repository.CacheRepository = &MockCache{}

func singleRaw(original, alternative, bsb string) map[domain.Field]string {
	return map[domain.Field]string{
		domain.FieldOriginalPrice:    original,
		domain.FieldAlternativePrice: alternative,
		domain.FieldBSBDiscount:      bsb,
	}
}

func TestRelocationService_Calculate(t *testing.T) {
	cache := NewMockCache()
	svc := NewRelocationService(cache, domain.PolicyAlternativePrice)

	result, err := svc.Calculate(context.Background(), domain.VariantSingle, singleRaw("1000", "1200", "100"))
	require.NoError(t, err)

	assertAmount(t, "200.00", result.GuestRefund, "guestRefund")
	assertAmount(t, "1200.00", result.PropertyInvoice, "propertyInvoice")
	assert.Equal(t, 1, cache.SetCalls)
	assert.Len(t, cache.Data, 1)
	for key := range cache.Data {
		assert.True(t, strings.HasPrefix(key, resultCachePrefix))
	}
}

func TestRelocationService_ReusesCachedResult(t *testing.T) {
	cache := NewMockCache()
	svc := NewRelocationService(cache, domain.PolicyAlternativePrice)
	ctx := context.Background()

	first, err := svc.Calculate(ctx, domain.VariantSingle, singleRaw("1000", "1200", "100"))
	require.NoError(t, err)
	second, err := svc.Calculate(ctx, domain.VariantSingle, singleRaw("1000.00", "1200", "100.0"))
	require.NoError(t, err)

	assert.Equal(t, 1, cache.SetCalls, "equivalent input should hit the cache")
	assert.True(t, first.GuestRefund.Equal(second.GuestRefund))
	assert.True(t, first.PropertyInvoice.Equal(second.PropertyInvoice))
	assert.True(t, first.Difference.Equal(second.Difference))
	assert.Equal(t, first.Policy, second.Policy)
}

func TestRelocationService_PolicyIsPartOfCacheKey(t *testing.T) {
	cache := NewMockCache()
	ctx := context.Background()
	raw := singleRaw("1000", "1200", "100")

	a, err := NewRelocationService(cache, domain.PolicyAlternativePrice).Calculate(ctx, domain.VariantSingle, raw)
	require.NoError(t, err)
	b, err := NewRelocationService(cache, domain.PolicyOutOfPocketExcess).Calculate(ctx, domain.VariantSingle, raw)
	require.NoError(t, err)

	assertAmount(t, "1200.00", a.PropertyInvoice, "policy A invoice")
	assertAmount(t, "100.00", b.PropertyInvoice, "policy B invoice")
	assert.Len(t, cache.Data, 2)
}

func TestRelocationService_CacheFailureIsNotFatal(t *testing.T) {
	cache := NewMockCache()
	cache.ForceErr = errors.New("connection refused")
	svc := NewRelocationService(cache, "")

	result, err := svc.Calculate(context.Background(), domain.VariantSingle, singleRaw("1000", "1200", "100"))
	require.NoError(t, err)
	assertAmount(t, "200.00", result.GuestRefund, "guestRefund")
	assert.Equal(t, DefaultPolicy, svc.Policy())
}

func TestRelocationService_MalformedCacheEntryIsRecomputed(t *testing.T) {
	cache := NewMockCache()
	svc := NewRelocationService(cache, domain.PolicyAlternativePrice)
	in, err := ValidateInput(domain.VariantSingle, singleRaw("1000", "1200", "100"))
	require.NoError(t, err)
	cache.Data[svc.resultKey(in)] = "{not json"

	result, err := svc.Calculate(context.Background(), domain.VariantSingle, singleRaw("1000", "1200", "100"))
	require.NoError(t, err)
	assertAmount(t, "200.00", result.GuestRefund, "guestRefund")
}

func TestRelocationService_InvalidInputSkipsCache(t *testing.T) {
	cache := NewMockCache()
	svc := NewRelocationService(cache, domain.PolicyAlternativePrice)

	_, err := svc.Calculate(context.Background(), domain.VariantSingle, singleRaw("0", "1200", "100"))

	var verrs domain.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, domain.ReasonPositive, verrs[domain.FieldOriginalPrice].Reason)
	assert.Zero(t, cache.GetCalls)
	assert.Zero(t, cache.SetCalls)
}
