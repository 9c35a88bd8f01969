package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var chatASIN string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive product support session",
	Long:  "Runs a REPL over one conversation. Switch products with /product <ASIN> (clears the history); exit with /quit or Ctrl-D.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if chatASIN == "" {
			return eris.New("--asin is required")
		}

		env, err := initAgentEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		a := env.NewAgent()
		a.SelectProduct(chatASIN)
		asin := chatASIN

		fmt.Println(a.Intro())
		fmt.Printf("[product %s]\n", asin)

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				break
			}
			line := strings.TrimSpace(scanner.Text())
			switch {
			case line == "":
				continue
			case line == "/quit", line == "/exit":
				return nil
			case strings.HasPrefix(line, "/product "):
				asin = strings.TrimSpace(strings.TrimPrefix(line, "/product "))
				a.SelectProduct(asin)
				fmt.Printf("[product %s, history cleared]\n", asin)
				continue
			}

			fmt.Println(a.Answer(cmd.Context(), line, asin))
		}
		return scanner.Err()
	},
}

func init() {
	chatCmd.Flags().StringVar(&chatASIN, "asin", "", "ASIN of the product to start with")
	rootCmd.AddCommand(chatCmd)
}
