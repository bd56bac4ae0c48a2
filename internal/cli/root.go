package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/config"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/topup"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/pkg/httpclient"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	verbose   bool
	configDir string
	apiURL    string
	rootCmd   *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "topup",
		Short: "Buy Arc Raiders Market credits",
		Long: `topup walks through a credit purchase against the market API: pick a package,
confirm the order, scan the PromptPay QR code, then confirm the payment landed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "./config", "Directory holding config.yml")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "Market API base URL (overrides topup.api_url)")
}

// Execute runs the root command
func Execute(version string) error {
	rootCmd.AddCommand(buyCmd)
	rootCmd.AddCommand(packagesCmd)
	rootCmd.AddCommand(balanceCmd)
	rootCmd.AddCommand(historyCmd)

	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

type environment struct {
	cfg    *config.Config
	client *topup.Client
	logger *zap.Logger
}

func loadEnvironment() (*environment, error) {
	cfg, err := config.LoadFrom(configDir)
	if err != nil {
		return nil, err
	}

	logger := zap.NewNop()
	if verbose {
		if logger, err = zap.NewDevelopment(); err != nil {
			return nil, err
		}
	}

	base := cfg.Topup.APIURL
	if apiURL != "" {
		base = apiURL
	}

	timeout := cfg.Topup.RequestTimeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	return &environment{
		cfg:    cfg,
		client: topup.NewClient(base, httpclient.NewHTTPClient(timeout, httpclient.WithUserAgent("arc-topup/"+rootCmd.Version))),
		logger: logger,
	}, nil
}
