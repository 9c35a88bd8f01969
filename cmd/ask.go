package main

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var askASIN string

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question about a product",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if askASIN == "" {
			return eris.New("--asin is required")
		}

		env, err := initAgentEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		question := strings.Join(args, " ")
		reply := env.NewAgent().Answer(cmd.Context(), question, askASIN)
		fmt.Println(reply)
		return nil
	},
}

func init() {
	askCmd.Flags().StringVar(&askASIN, "asin", "", "ASIN of the product to ask about")
	rootCmd.AddCommand(askCmd)
}
