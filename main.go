package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"relocation-calculator/config"
	"relocation-calculator/domain"
	"relocation-calculator/service"
)

const appVersion = "0.3.0"

type rootOptions struct {
	envFile       string
	invoicePolicy string
	variantFlag   string
	logLevel      string

	cfg     config.Config
	policy  domain.InvoicePolicy
	variant domain.Variant
}

func newRootCommand() *cobra.Command {
	o := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "relocalc",
		Short:         "Relocation refund and invoice calculator",
		Version:       appVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.complete(cmd)
		},
	}
	cmd.SetVersionTemplate("relocalc v{{.Version}}\n")

	fs := cmd.PersistentFlags()
	fs.StringVar(&o.envFile, "env-file", ".env", "Optional file with environment variables")
	fs.StringVar(&o.invoicePolicy, "invoice-policy", "", "Property invoice policy: alternative-price (a) or out-of-pocket-excess (b)")
	fs.StringVar(&o.variantFlag, "variant", "", "Discount inputs: single (one BSB discount) or dual")
	fs.StringVar(&o.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(newServeCommand(o), newCalcCommand(o))
	return cmd
}

// complete loads the config and lets flags that were set override it.
func (o *rootOptions) complete(cmd *cobra.Command) error {
	cfg, err := config.Load(o.envFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("invoice-policy") {
		cfg.InvoicePolicy = o.invoicePolicy
	}
	if cmd.Flags().Changed("variant") {
		cfg.Variant = o.variantFlag
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if err := cfg.ConfigureLogging(); err != nil {
		return err
	}

	if o.policy, err = service.ParsePolicy(cfg.InvoicePolicy); err != nil {
		return err
	}
	if o.variant, err = service.ParseVariant(cfg.Variant); err != nil {
		return err
	}
	o.cfg = cfg

	logrus.WithFields(logrus.Fields{
		"policy":  o.policy,
		"variant": o.variant,
	}).Debug("configuration loaded")
	return nil
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
