package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var productsLimit int

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List products available in the index",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initAgentEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		products, err := env.NewAgent().ListProducts(cmd.Context(), productsLimit)
		if err != nil {
			return err
		}

		for _, p := range products {
			fmt.Printf("%s\t%s\n", p.ASIN, p.Title)
		}
		fmt.Printf("%d products\n", len(products))
		return nil
	},
}

func init() {
	productsCmd.Flags().IntVar(&productsLimit, "limit", 500, "maximum number of products to list")
	rootCmd.AddCommand(productsCmd)
}
