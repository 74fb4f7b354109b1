package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"listaai/pkg/client"
)

var (
	apiURL        string
	cacheDir      string
	watchInterval time.Duration
	watchTimeout  time.Duration
)

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Inspect payment checkouts",
}

// listaai checkout watch <id>
var checkoutWatchCmd = &cobra.Command{
	Use:   "watch <checkout-id>",
	Short: "Poll a checkout until it is approved or fails",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), watchTimeout)
		defer cancel()

		resp, err := client.New(apiURL).WaitForApproval(ctx, args[0], watchInterval)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), resp)
	},
}

// listaai list <id> prints a list with its items, using the local cache when
// the API is down.
var showListCmd = &cobra.Command{
	Use:   "list <list-id>",
	Short: "Show a gift list and its items",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, err := client.OpenCache(cacheDir, 7*24*time.Hour)
		if err != nil {
			return err
		}
		defer cache.Close()

		c := client.New(apiURL, client.WithCache(cache))
		list, err := c.GetList(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		items, err := c.GetItems(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s\n%s\n\n", list.Title, list.Description)
		for _, item := range items {
			mark := " "
			if item.Claimed {
				mark = "x"
			}
			fmt.Fprintf(out, "[%s] %s\n", mark, item.Name)
		}
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{checkoutCmd, showListCmd} {
		cmd.PersistentFlags().StringVar(&apiURL, "api", "http://localhost:3001", "ListaAi API base URL")
	}
	checkoutWatchCmd.Flags().DurationVar(&watchInterval, "interval", 2*time.Second, "poll interval")
	checkoutWatchCmd.Flags().DurationVar(&watchTimeout, "timeout", 10*time.Minute, "give up after")
	showListCmd.Flags().StringVar(&cacheDir, "cache-dir", ".listaai-cache", "badger cache directory (empty keeps it in memory)")

	checkoutCmd.AddCommand(checkoutWatchCmd)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
