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
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/blinklabs-io/goledger"
	"github.com/blinklabs-io/goledger/cmd/common"
	"github.com/blinklabs-io/goledger/ledger"
)

type transactionFlags struct {
	flagset *flag.FlagSet
	memo    string
	maxFee  uint64
	outFile string
}

func newTransactionFlags(name string) *transactionFlags {
	f := &transactionFlags{
		flagset: flag.NewFlagSet(name, flag.ExitOnError),
	}
	f.flagset.StringVar(&f.memo, "memo", "", "transaction memo")
	f.flagset.Uint64Var(
		&f.maxFee,
		"max-fee",
		0,
		"maximum transaction fee (defaults to the client setting)",
	)
	f.flagset.StringVar(
		&f.outFile,
		"out",
		"",
		"write the frozen, operator-signed transaction to this file instead of submitting it",
	)
	return f
}

func (f *transactionFlags) parse(args []string) {
	if err := f.flagset.Parse(args); err != nil {
		fmt.Printf("failed to parse subcommand args: %s\n", err)
		os.Exit(1)
	}
}

// commonSetters is implemented by every transaction kind
type commonSetters interface {
	SetMemo(memo string) error
	SetMaxTransactionFee(fee uint64) error
}

func (f *transactionFlags) apply(tx commonSetters) {
	if err := tx.SetMemo(f.memo); err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	if f.maxFee > 0 {
		if err := tx.SetMaxTransactionFee(f.maxFee); err != nil {
			fmt.Printf("ERROR: %s\n", err)
			os.Exit(1)
		}
	}
}

func runTransfer(f *common.GlobalFlags) {
	txFlags := newTransactionFlags("transfer")
	var to string
	var amount int64
	txFlags.flagset.StringVar(&to, "to", "", "recipient account ID")
	txFlags.flagset.Int64Var(&amount, "amount", 0, "amount to transfer from the operator")
	txFlags.parse(f.Flagset.Args()[1:])
	if to == "" || amount <= 0 {
		fmt.Printf("ERROR: you must specify -to and a positive -amount\n")
		os.Exit(1)
	}
	client := common.CreateClient(f)
	defer client.Close()
	common.RequireOperator(client)
	tx := ledger.NewTransferTransaction()
	txFlags.apply(tx)
	checkErr(tx.AddTransfer(client.OperatorAccountId(), -amount))
	checkErr(tx.AddTransfer(common.MustParseEntityId(client, "recipient", to), amount))
	submit(client, tx, txFlags.outFile)
}

func runSubmitMessage(f *common.GlobalFlags) {
	txFlags := newTransactionFlags("submit-message")
	var topic, message, messageFile string
	var chunkSize, maxChunks int
	txFlags.flagset.StringVar(&topic, "topic", "", "topic ID")
	txFlags.flagset.StringVar(&message, "message", "", "message to submit")
	txFlags.flagset.StringVar(&messageFile, "message-file", "", "path to a file holding the message")
	txFlags.flagset.IntVar(
		&chunkSize,
		"chunk-size",
		ledger.DefaultTopicMessageChunkSize,
		"maximum message bytes per chunk",
	)
	txFlags.flagset.IntVar(&maxChunks, "max-chunks", ledger.DefaultMaxChunks, "maximum number of chunks")
	txFlags.parse(f.Flagset.Args()[1:])
	if topic == "" {
		fmt.Printf("ERROR: you must specify -topic\n")
		os.Exit(1)
	}
	data := readPayload(message, messageFile)
	client := common.CreateClient(f)
	defer client.Close()
	common.RequireOperator(client)
	tx := ledger.NewTopicMessageSubmitTransaction()
	txFlags.apply(tx)
	checkErr(tx.SetTopicId(common.MustParseEntityId(client, "topic ID", topic)))
	checkErr(tx.SetMessage(data))
	checkErr(tx.SetChunkSize(chunkSize))
	checkErr(tx.SetMaxChunks(maxChunks))
	submit(client, tx, txFlags.outFile)
}

func runAppendFile(f *common.GlobalFlags) {
	txFlags := newTransactionFlags("append-file")
	var file, contents, contentsFile string
	var chunkSize int
	txFlags.flagset.StringVar(&file, "file", "", "file ID")
	txFlags.flagset.StringVar(&contents, "contents", "", "contents to append")
	txFlags.flagset.StringVar(&contentsFile, "contents-file", "", "path to a file holding the contents")
	txFlags.flagset.IntVar(
		&chunkSize,
		"chunk-size",
		ledger.DefaultFileAppendChunkSize,
		"maximum content bytes per chunk",
	)
	txFlags.parse(f.Flagset.Args()[1:])
	if file == "" {
		fmt.Printf("ERROR: you must specify -file\n")
		os.Exit(1)
	}
	data := readPayload(contents, contentsFile)
	client := common.CreateClient(f)
	defer client.Close()
	common.RequireOperator(client)
	tx := ledger.NewFileAppendTransaction()
	txFlags.apply(tx)
	checkErr(tx.SetFileId(common.MustParseEntityId(client, "file ID", file)))
	checkErr(tx.SetContents(data))
	checkErr(tx.SetChunkSize(chunkSize))
	submit(client, tx, txFlags.outFile)
}

// submit executes the transaction and waits for the receipt of its last chunk. With an output
// file, the transaction is frozen, signed by the operator and written out instead
func submit(client *goledger.Client, tx ledger.Transaction, outFile string) {
	ctx := context.Background()
	if outFile != "" {
		checkErr(tx.FreezeWith(client))
		op := client.Operator()
		checkErr(tx.SignWith(op.PublicKey, op.Signer))
		txBytes, err := tx.ToBytes(ctx)
		checkErr(err)
		if err := os.WriteFile(outFile, txBytes, 0o600); err != nil {
			fmt.Printf("Failed to write transaction file: %s\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote transaction %s to %s\n", tx.TransactionId(), outFile)
		return
	}
	responses, err := tx.ExecuteAll(ctx, client)
	for _, resp := range responses {
		fmt.Printf("response: %s\n", resp)
	}
	if err != nil {
		var chunkErr *ledger.ChunkError
		if errors.As(err, &chunkErr) {
			fmt.Printf("ERROR: %d of %d chunks were accepted\n", chunkErr.Index, chunkErr.Total)
		}
		fmt.Printf("ERROR: failure submitting transaction: %s\n", err)
		os.Exit(1)
	}
	receipt, err := responses[len(responses)-1].GetReceipt(ctx, client)
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	fmt.Printf("receipt: %s\n", receipt)
}

func readPayload(value string, path string) []byte {
	switch {
	case value != "" && path != "":
		fmt.Printf("ERROR: specify the payload inline or as a file, not both\n")
		os.Exit(1)
	case path != "":
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Printf("Failed to load payload file: %s\n", err)
			os.Exit(1)
		}
		return data
	case value != "":
		return []byte(value)
	}
	fmt.Printf("ERROR: you must specify a payload\n")
	os.Exit(1)
	return nil
}

func checkErr(err error) {
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
}
