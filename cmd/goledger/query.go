// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/blinklabs-io/goledger/cmd/common"
	"github.com/blinklabs-io/goledger/ledger"
)

type queryFlags struct {
	flagset         *flag.FlagSet
	maxQueryPayment uint64
	costOnly        bool
}

func newQueryFlags() *queryFlags {
	f := &queryFlags{
		flagset: flag.NewFlagSet("query", flag.ExitOnError),
	}
	f.flagset.Uint64Var(
		&f.maxQueryPayment,
		"max-payment",
		0,
		"maximum payment for paid queries (defaults to the client setting)",
	)
	f.flagset.BoolVar(&f.costOnly, "cost", false, "only print what the query would cost")
	return f
}

func runQuery(f *common.GlobalFlags) {
	queryFlags := newQueryFlags()
	err := queryFlags.flagset.Parse(f.Flagset.Args()[1:])
	if err != nil {
		fmt.Printf("failed to parse subcommand args: %s\n", err)
		os.Exit(1)
	}
	if len(queryFlags.flagset.Args()) < 2 {
		fmt.Printf("ERROR: you must specify a query and its argument\n")
		fmt.Printf("usage: query [-cost] [-max-payment N] {balance,info} ACCOUNT\n")
		fmt.Printf("       query [-cost] [-max-payment N] {receipt,record} TRANSACTION_ID\n")
		os.Exit(1)
	}
	client := common.CreateClient(f)
	defer client.Close()
	ctx := context.Background()
	arg := queryFlags.flagset.Arg(1)

	switch queryFlags.flagset.Arg(0) {
	case "balance":
		q := ledger.NewAccountBalanceQuery().
			SetAccountId(common.MustParseEntityId(client, "account ID", arg))
		if queryFlags.costOnly {
			printCost(q.Cost(ctx, client))
			return
		}
		balance, err := q.Execute(ctx, client)
		if err != nil {
			fmt.Printf("ERROR: failure querying balance: %s\n", err)
			os.Exit(1)
		}
		fmt.Printf("account: %s\n", balance.AccountId)
		fmt.Printf("balance: %d\n", balance.Balance)
	case "info":
		common.RequireOperator(client)
		q := ledger.NewAccountInfoQuery().
			SetAccountId(common.MustParseEntityId(client, "account ID", arg))
		q.SetMaxQueryPayment(queryFlags.maxQueryPayment)
		if queryFlags.costOnly {
			printCost(q.Cost(ctx, client))
			return
		}
		info, err := q.Execute(ctx, client)
		if err != nil {
			fmt.Printf("ERROR: failure querying account info: %s\n", err)
			os.Exit(1)
		}
		fmt.Printf("account-info: %s\n", info)
		fmt.Printf("expiration: %s\n", info.ExpirationTime.Time())
		fmt.Printf("auto-renew-period: %s\n", info.AutoRenewPeriod)
	case "receipt":
		q := ledger.NewTransactionReceiptQuery().
			SetTransactionId(mustParseTransactionId(arg)).
			SetValidateStatus(false)
		if queryFlags.costOnly {
			printCost(q.Cost(ctx, client))
			return
		}
		receipt, err := q.Execute(ctx, client)
		if err != nil {
			fmt.Printf("ERROR: failure querying receipt: %s\n", err)
			os.Exit(1)
		}
		fmt.Printf("receipt: %s\n", receipt)
	case "record":
		common.RequireOperator(client)
		q := ledger.NewTransactionRecordQuery().
			SetTransactionId(mustParseTransactionId(arg)).
			SetValidateStatus(false)
		q.SetMaxQueryPayment(queryFlags.maxQueryPayment)
		if queryFlags.costOnly {
			printCost(q.Cost(ctx, client))
			return
		}
		record, err := q.Execute(ctx, client)
		if err != nil {
			fmt.Printf("ERROR: failure querying record: %s\n", err)
			os.Exit(1)
		}
		fmt.Printf("record: %s\n", record)
		for _, transfer := range record.Transfers {
			fmt.Printf("  transfer: %s\n", transfer)
		}
	default:
		fmt.Printf("ERROR: unknown query: %s\n", queryFlags.flagset.Arg(0))
		os.Exit(1)
	}
}

func printCost(cost uint64, err error) {
	if err != nil {
		fmt.Printf("ERROR: failure querying cost: %s\n", err)
		os.Exit(1)
	}
	fmt.Printf("cost: %d\n", cost)
}

func mustParseTransactionId(s string) ledger.TransactionId {
	id, err := ledger.ParseTransactionId(s)
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	return id
}
