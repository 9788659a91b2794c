package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"example.com/encomendas/services/orders/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "orders_service",
	Short: "Order management service",
	Long: `A service that manages customer orders against a product catalog,
tracking line items, computed totals, lifecycle status and the
append-only history of physical locations.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := cmd.Help()
		if err != nil {
			log.Error().Err(err).Msg("Failed to display help")
		}
	},
}

// Execute executes the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(func() {
		if cfgFile != "" {
			config.SetConfigFile(cfgFile)
		}
	})
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./app.env)")
}
