// cmd/gosquash/encodings_cmd.go

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/creativeyann17/go-squash/pkg/codec"
	"github.com/creativeyann17/go-squash/pkg/negotiate"
)

func init() {
	rootCmd.AddCommand(encodingsCmd())
}

func encodingsCmd() *cobra.Command {
	var header string

	cmd := &cobra.Command{
		Use:   "encodings",
		Short: "List registered codecs, or negotiate one against an Accept-Encoding header",
		RunE: func(cmd *cobra.Command, args []string) error {
			available := codec.Available()

			if header == "" {
				fmt.Println("Registered codecs (preference order):")
				for _, id := range available {
					c, _ := codec.Lookup(id)
					fmt.Printf("  %-8s levels %d-%d (default %d), extension .%s\n",
						id, c.MinLevel(), c.MaxLevel(), c.DefaultLevel(), c.Extension())
				}
				return nil
			}

			chosen, ok := negotiate.Best(header, available)
			if !ok {
				fmt.Println("No acceptable encoding; send identity (uncompressed)")
				return nil
			}
			fmt.Printf("Negotiated: %s\n", chosen)
			return nil
		},
	}

	cmd.Flags().StringVar(&header, "accept", "", "Accept-Encoding header value to negotiate against")

	return cmd
}
