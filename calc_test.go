package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relocation-calculator/domain"
	"relocation-calculator/repository"
	"relocation-calculator/service"
)

func newCalcService(policy domain.InvoicePolicy) *service.RelocationService {
	return service.NewRelocationService(repository.NewMemoryCache(), policy)
}

func TestRunCalc_Single(t *testing.T) {
	var stdout, stderr bytes.Buffer
	clip := &repository.MemoryClipboard{}

	err := runCalc(context.Background(), newCalcService(domain.PolicyAlternativePrice), domain.VariantSingle,
		&calcOptions{original: "1000", alternative: "1200", bsb: "100", copy: true},
		clip, &stdout, &stderr)
	require.NoError(t, err)

	assert.Equal(t, "Guest Refund: $200.00\nProperty Invoice: $1200.00\n", stdout.String())
	assert.Equal(t, "Guest Refund: $200.00\nProperty Invoice: $1200.00", clip.Text())
	assert.Contains(t, stderr.String(), "copied")
}

func TestRunCalc_DualWithBreakdown(t *testing.T) {
	var stdout, stderr bytes.Buffer

	err := runCalc(context.Background(), newCalcService(domain.PolicyOutOfPocketExcess), domain.VariantDual,
		&calcOptions{original: "1000", alternative: "1200", discountOriginal: "0", discountAlternative: "50", breakdown: true},
		&repository.MemoryClipboard{}, &stdout, &stderr)
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "Difference:                $150.00")
	assert.Contains(t, stdout.String(), "Property Invoice: $150.00")
	assert.Empty(t, stderr.String())
}

func TestRunCalc_InvalidInput(t *testing.T) {
	var stdout, stderr bytes.Buffer

	err := runCalc(context.Background(), newCalcService(domain.PolicyAlternativePrice), domain.VariantSingle,
		&calcOptions{original: "0", alternative: "abc"},
		&repository.MemoryClipboard{}, &stdout, &stderr)
	require.Error(t, err)

	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "Original Accommodation Cost (Including Taxes & Fees): Must be a positive number")
	assert.Contains(t, stderr.String(), "Alternative Accommodation Cost (Including Taxes & Fees): Must be a number")
	assert.Contains(t, stderr.String(), "Booking Sponsored Benefit (BSB) Discount: Required")
}

func TestRunCalc_ClipboardFailureIsAWarning(t *testing.T) {
	var stdout, stderr bytes.Buffer
	clip := &repository.MemoryClipboard{Err: repository.ErrClipboardUnsupported}

	err := runCalc(context.Background(), newCalcService(domain.PolicyAlternativePrice), domain.VariantSingle,
		&calcOptions{original: "500", alternative: "500", bsb: "50", copy: true},
		clip, &stdout, &stderr)
	require.NoError(t, err)

	assert.Equal(t, "Guest Refund: $0.00\nProperty Invoice: $0.00\n", stdout.String())
	assert.Contains(t, stderr.String(), "warning: Could not copy to clipboard")
}

func TestRootCommand_Flags(t *testing.T) {
	cmd := newRootCommand()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{
		"--env-file", t.TempDir() + "/none.env",
		"--invoice-policy", "b",
		"calc", "--original", "1000", "--alternative", "1200", "--bsb", "100",
	})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "Guest Refund: $200.00\nProperty Invoice: $100.00\n", stdout.String())
}

func TestRootCommand_UnknownPolicy(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{
		"--env-file", t.TempDir() + "/none.env",
		"--invoice-policy", "z",
		"calc", "--original", "1000", "--alternative", "1200", "--bsb", "100",
	})

	assert.ErrorIs(t, cmd.Execute(), service.ErrUnknownPolicy)
}
