package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"relocation-calculator/domain"
	"relocation-calculator/repository"
	"relocation-calculator/service"
)

type calcOptions struct {
	original            string
	alternative         string
	bsb                 string
	discountOriginal    string
	discountAlternative string
	copy                bool
	breakdown           bool
}

func newCalcCommand(o *rootOptions) *cobra.Command {
	c := &calcOptions{}

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Calculate guest refund and property invoice in the terminal",
		Example: `  relocalc calc --original 1000 --alternative 1200 --bsb 100
  relocalc calc --variant dual --original 1000 --alternative 1200 --discount-original 0 --discount-alternative 100 --copy`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cache := repository.NewMemoryCache()
			defer cache.Stop()
			svc := service.NewRelocationService(cache, o.policy)
			return runCalc(cmd.Context(), svc, o.variant, c, repository.NewSystemClipboard(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&c.original, "original", "", "Original accommodation cost, taxes and fees included")
	fs.StringVar(&c.alternative, "alternative", "", "Alternative accommodation cost, taxes and fees included")
	fs.StringVar(&c.bsb, "bsb", "", "BSB discount applied to both accommodations (single variant)")
	fs.StringVar(&c.discountOriginal, "discount-original", "0", "BSB discount on the original accommodation (dual variant)")
	fs.StringVar(&c.discountAlternative, "discount-alternative", "", "BSB discount on the alternative accommodation (dual variant)")
	fs.BoolVar(&c.copy, "copy", false, "Copy the result text to the clipboard")
	fs.BoolVar(&c.breakdown, "breakdown", false, "Also print the out-of-pocket amounts")
	return cmd
}

func (c *calcOptions) values() map[domain.Field]string {
	return map[domain.Field]string{
		domain.FieldOriginalPrice:         c.original,
		domain.FieldAlternativePrice:      c.alternative,
		domain.FieldBSBDiscount:           c.bsb,
		domain.FieldDiscountOnOriginal:    c.discountOriginal,
		domain.FieldDiscountOnAlternative: c.discountAlternative,
	}
}

// runCalc drives the same form transitions as the web presenter.
func runCalc(
	ctx context.Context,
	svc *service.RelocationService,
	variant domain.Variant,
	c *calcOptions,
	clip repository.Clipboard,
	stdout, stderr io.Writer,
) error {
	if ctx == nil {
		ctx = context.Background()
	}

	form := service.NewForm(variant)
	values := c.values()
	for _, f := range variant.Fields() {
		form = form.Change(f, values[f])
	}

	form, ok := form.BeginSubmit()
	if !ok {
		printFieldErrors(stderr, form)
		return errors.New("invalid input")
	}
	form = form.CompleteSubmit(svc.Calculate(ctx, variant, form.Values))
	if form.Result == nil {
		printFieldErrors(stderr, form)
		if form.Notice != nil {
			return errors.New(form.Notice.Text)
		}
		return errors.New("invalid input")
	}

	if c.breakdown {
		fmt.Fprintln(stdout, service.Breakdown(*form.Result))
	} else {
		fmt.Fprintln(stdout, service.ResultText(*form.Result))
	}

	if c.copy {
		form = form.Copy(clip)
		if form.Notice.Kind == service.NoticeError {
			fmt.Fprintln(stderr, "warning:", form.Notice.Text)
		} else {
			fmt.Fprintln(stderr, form.Notice.Text)
		}
	}
	return nil
}

func printFieldErrors(w io.Writer, form service.Form) {
	fields := make([]string, 0, len(form.Errors))
	for f := range form.Errors {
		fields = append(fields, string(f))
	}
	sort.Strings(fields)
	for _, f := range fields {
		fmt.Fprintf(w, "%s: %s\n", domain.Field(f).Label(), form.Errors[domain.Field(f)].Reason)
	}
}
