package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/assetkid/gallery/src/client"
	"github.com/assetkid/gallery/src/gateway/request"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

var (
	clientCmd = &cobra.Command{
		Use:   "client",
		Short: "Calls the gallery gateway",
	}

	// Address calls are made on behalf of
	from string
)

func init() {
	clientCmd.PersistentFlags().StringVar(&from, "from", "", "caller address")
	RootCmd.AddCommand(clientCmd)

	clientCmd.AddCommand(
		clientCommand("collections", "Lists collections", 0, func(c *client.Client, args []uint64) (interface{}, error) {
			return c.Collections(applicationCtx)
		}),
		clientCommand("token <id>", "Shows a token", 1, func(c *client.Client, args []uint64) (interface{}, error) {
			return c.Token(applicationCtx, args[0])
		}),
		clientCommand("status <collection>", "Shows the escrow status of a collection", 1, func(c *client.Client, args []uint64) (interface{}, error) {
			return c.Status(applicationCtx, args[0])
		}),
		clientCommand("bids <collection>", "Shows the bid book", 1, func(c *client.Client, args []uint64) (interface{}, error) {
			return c.Book(applicationCtx, args[0], true)
		}),
		clientCommand("asks <collection>", "Shows the ask book", 1, func(c *client.Client, args []uint64) (interface{}, error) {
			return c.Book(applicationCtx, args[0], false)
		}),
		clientCommand("order <collection> <bid: 1|0> <slot>", "Shows one slot of a book", 3, func(c *client.Client, args []uint64) (interface{}, error) {
			return c.Order(applicationCtx, args[0], args[1] == 1, int(args[2]))
		}),
		clientCommand("balance <asset>", "Shows the caller's balance", 1, func(c *client.Client, args []uint64) (interface{}, error) {
			return c.Balance(applicationCtx, caller(), args[0])
		}),
		clientCommand("create-tier <base> [tier...]", "Creates a tier collectable", -1, func(c *client.Client, args []uint64) (interface{}, error) {
			if len(args) == 0 {
				return nil, fmt.Errorf("base percentage required")
			}
			return c.CreateTierCollectable(applicationCtx, caller(), &request.CreateTierCollectable{Base: args[0], Tiers: args[1:]})
		}),
		clientCommand("create-simple <quantity> <percentage> [<quantity> <percentage>...]", "Creates a simple collectable", -1, func(c *client.Client, args []uint64) (interface{}, error) {
			if len(args) == 0 || len(args)%2 != 0 {
				return nil, fmt.Errorf("quantity and percentage pairs required")
			}
			in := new(request.CreateSimpleCollectable)
			for i := 0; i < len(args); i += 2 {
				in.Quantities = append(in.Quantities, args[i])
				in.Percentages = append(in.Percentages, args[i+1])
			}
			return c.CreateSimpleCollectable(applicationCtx, caller(), in)
		}),
		clientCommand("exchange <collection> <submit token> <amount> <exchange token>", "Exchanges tier tokens", 4, func(c *client.Client, args []uint64) (interface{}, error) {
			return c.Exchange(applicationCtx, caller(), args[0], &request.Exchange{SubmitId: args[1], Amount: args[2], ExchangeId: args[3]})
		}),
		clientCommand("burn <collection>", "Burns a whole collection", 1, func(c *client.Client, args []uint64) (interface{}, error) {
			return c.Burn(applicationCtx, caller(), args[0])
		}),
		clientCommand("bid <collection> <amount> <price>", "Submits a bid", 3, func(c *client.Client, args []uint64) (interface{}, error) {
			return c.SubmitOffer(applicationCtx, caller(), args[0], &request.SubmitOffer{Amount: args[1], Price: args[2], IsBid: true})
		}),
		clientCommand("ask <collection> <amount> <price>", "Submits an ask", 3, func(c *client.Client, args []uint64) (interface{}, error) {
			return c.SubmitOffer(applicationCtx, caller(), args[0], &request.SubmitOffer{Amount: args[1], Price: args[2]})
		}),
		clientCommand("cancel-bid <collection>", "Cancels the caller's bid", 1, func(c *client.Client, args []uint64) (interface{}, error) {
			return c.CancelOffer(applicationCtx, caller(), args[0], true)
		}),
		clientCommand("cancel-ask <collection>", "Cancels the caller's ask", 1, func(c *client.Client, args []uint64) (interface{}, error) {
			return c.CancelOffer(applicationCtx, caller(), args[0], false)
		}),
		clientCommand("commercialize <collection> <amount> <price>", "Opens a support campaign", 3, func(c *client.Client, args []uint64) (interface{}, error) {
			return c.Commercialize(applicationCtx, caller(), args[0], &request.Commercialize{Amount: args[1], Price: args[2]})
		}),
		clientCommand("cancel-campaign <collection>", "Cancels the support campaign", 1, func(c *client.Client, args []uint64) (interface{}, error) {
			return c.Commercialize(applicationCtx, caller(), args[0], &request.Commercialize{Cancel: true})
		}),
		clientCommand("support <collection> <amount>", "Supports a campaign", 2, func(c *client.Client, args []uint64) (interface{}, error) {
			return c.Support(applicationCtx, caller(), args[0], args[1])
		}),
		clientCommand("withdraw <collection>", "Withdraws support", 1, func(c *client.Client, args []uint64) (interface{}, error) {
			return c.WithdrawSupport(applicationCtx, caller(), args[0])
		}),
		clientCommand("claim-sft <collection>", "Claims supported units", 1, func(c *client.Client, args []uint64) (interface{}, error) {
			return c.ClaimSFT(applicationCtx, caller(), args[0])
		}),
		clientCommand("claim-bia <collection>", "Claims a refund or the campaign proceeds", 1, func(c *client.Client, args []uint64) (interface{}, error) {
			return c.ClaimBIA(applicationCtx, caller(), args[0])
		}),
		clientCommand("approve-gallery", "Lets the gallery move the caller's assets", 0, func(c *client.Client, args []uint64) (interface{}, error) {
			return c.SetApprovalForAll(applicationCtx, caller(), true)
		}),
		clientCommand("approve <collection>", "Approves a collection for trading", 1, func(c *client.Client, args []uint64) (interface{}, error) {
			return c.Approve(applicationCtx, caller(), args[0])
		}),
		clientCommand("compact <collection>", "Compacts both books", 1, func(c *client.Client, args []uint64) (interface{}, error) {
			return c.Compact(applicationCtx, caller(), args[0])
		}),
	)

	clientCmd.AddCommand(&cobra.Command{
		Use:   "token-by-metadata <hash>",
		Short: "Finds the token registered with a metadata hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			out, err := client.NewClient(&conf.Client).TokenByMetadata(applicationCtx, common.HexToHash(args[0]))
			if err != nil {
				return
			}
			return printJSON(out)
		},
	})

	clientCmd.AddCommand(&cobra.Command{
		Use:   "fund <address> <amount>",
		Short: "Sends BIA from the project wallet",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			amount, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				return
			}
			to, err := parseAddress(args[0])
			if err != nil {
				return
			}
			out, err := client.NewClient(&conf.Client).Fund(applicationCtx, caller(), to, amount)
			if err != nil {
				return
			}
			return printJSON(out)
		},
	}, &cobra.Command{
		Use:   "sweep <collection> <address>",
		Short: "Moves the surplus held by the escrow",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			collectionId, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return
			}
			to, err := parseAddress(args[1])
			if err != nil {
				return
			}
			out, err := client.NewClient(&conf.Client).Sweep(applicationCtx, caller(), collectionId, to)
			if err != nil {
				return
			}
			return printJSON(out)
		},
	}, &cobra.Command{
		Use:   "metadata <bia|fft> <uri>",
		Short: "Sets the URI of a genesis asset",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			out, err := client.NewClient(&conf.Client).SetMetadata(applicationCtx, caller(), args[0], args[1])
			if err != nil {
				return
			}
			return printJSON(out)
		},
	})
}

// Command whose arguments are all numbers. n < 0 accepts any number of arguments.
func clientCommand(use, short string, n int, f func(c *client.Client, args []uint64) (interface{}, error)) *cobra.Command {
	args := cobra.ArbitraryArgs
	if n >= 0 {
		args = cobra.ExactArgs(n)
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			numbers := make([]uint64, len(args))
			for i, arg := range args {
				numbers[i], err = strconv.ParseUint(arg, 10, 64)
				if err != nil {
					return fmt.Errorf("argument %d: %w", i, err)
				}
			}

			out, err := f(client.NewClient(&conf.Client), numbers)
			if err != nil {
				return
			}
			return printJSON(out)
		},
	}
}

func caller() common.Address {
	if from == "" {
		return common.HexToAddress(conf.Client.Caller)
	}
	return common.HexToAddress(from)
}

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("malformed address: %s", s)
	}
	return common.HexToAddress(s), nil
}

func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
