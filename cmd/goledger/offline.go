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

	"github.com/blinklabs-io/goledger/cbor"
	"github.com/blinklabs-io/goledger/cmd/common"
	"github.com/blinklabs-io/goledger/keys"
	"github.com/blinklabs-io/goledger/ledger"
)

type offlineFlags struct {
	flagset    *flag.FlagSet
	txFile     string
	reqFile    string
	bundleFile string
	keyHex     string
	outFile    string
}

func newOfflineFlags(name string) *offlineFlags {
	f := &offlineFlags{
		flagset: flag.NewFlagSet(name, flag.ExitOnError),
	}
	f.flagset.StringVar(&f.txFile, "tx", "", "path to a serialized transaction")
	f.flagset.StringVar(&f.reqFile, "request", "", "path to a CBOR signing request")
	f.flagset.StringVar(&f.bundleFile, "bundle", "", "path to a CBOR signature bundle")
	f.flagset.StringVar(&f.keyHex, "key", "", "hex or DER-encoded private key to sign with")
	f.flagset.StringVar(&f.outFile, "out", "", "output path")
	return f
}

func runOffline(f *common.GlobalFlags) {
	args := f.Flagset.Args()[1:]
	if len(args) == 0 {
		fmt.Printf("ERROR: you must specify an offline command (inspect, sign-request, sign, attach, submit)\n")
		os.Exit(1)
	}
	offFlags := newOfflineFlags(args[0])
	if err := offFlags.flagset.Parse(args[1:]); err != nil {
		fmt.Printf("failed to parse subcommand args: %s\n", err)
		os.Exit(1)
	}
	ctx := context.Background()
	switch args[0] {
	case "inspect":
		tx := loadTransaction(offFlags.txFile)
		fmt.Printf("transaction-id: %s\n", tx.TransactionId())
		fmt.Printf("type: %T\n", tx)
		fmt.Printf("memo: %q\n", tx.Memo())
		fmt.Printf("max-fee: %d\n", tx.MaxTransactionFee())
		sigs, err := tx.Signatures(ctx)
		checkErr(err)
		for _, body := range sigs {
			fmt.Printf("body: %s node %s\n", body.TransactionId, body.NodeAccountId)
			for _, pair := range body.Signatures {
				fmt.Printf("  signed-by: %s\n", pair.PublicKey)
			}
		}
	case "sign-request":
		tx := loadTransaction(offFlags.txFile)
		req, err := tx.SigningRequest()
		checkErr(err)
		reqCbor, err := cbor.Encode(req)
		checkErr(err)
		writeOutput(offFlags.outFile, reqCbor)
		fmt.Printf("Wrote signing request for %d bodies to %s\n", len(req.Bodies), offFlags.outFile)
	case "sign":
		reqCbor := readInput("signing request", offFlags.reqFile)
		req, err := ledger.NewSigningRequestFromCbor(reqCbor)
		checkErr(err)
		key, err := keys.ParsePrivateKey(offFlags.keyHex)
		checkErr(err)
		fmt.Printf("Signing %s %s for %d nodes\n", req.Kind, req.TransactionId, len(req.Bodies))
		bundle, err := req.Sign(ctx, key.PublicKey(), key.Signer())
		checkErr(err)
		bundleCbor, err := bundle.Cbor()
		checkErr(err)
		writeOutput(offFlags.outFile, bundleCbor)
		fmt.Printf("Wrote %s\n", bundle)
	case "attach":
		tx := loadTransaction(offFlags.txFile)
		bundle, err := ledger.NewSignatureBundleFromCbor(readInput("signature bundle", offFlags.bundleFile))
		checkErr(err)
		checkErr(tx.AddSignatureBundle(bundle))
		txBytes, err := tx.ToBytes(ctx)
		checkErr(err)
		out := offFlags.outFile
		if out == "" {
			out = offFlags.txFile
		}
		writeOutput(out, txBytes)
		fmt.Printf("Attached signatures to %s\n", out)
	case "submit":
		tx := loadTransaction(offFlags.txFile)
		client := common.CreateClient(f)
		defer client.Close()
		submit(client, tx, "")
	default:
		fmt.Printf("Unknown offline command: %s\n", args[0])
		os.Exit(1)
	}
}

func loadTransaction(path string) ledger.Transaction {
	tx, err := ledger.TransactionFromBytes(readInput("transaction", path))
	if err != nil {
		fmt.Printf("failed to decode transaction: %s\n", err)
		os.Exit(1)
	}
	return tx
}

func readInput(name string, path string) []byte {
	if path == "" {
		fmt.Printf("ERROR: you must specify a %s file\n", name)
		os.Exit(1)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("Failed to load %s file: %s\n", name, err)
		os.Exit(1)
	}
	return data
}

func writeOutput(path string, data []byte) {
	if path == "" {
		fmt.Printf("ERROR: you must specify -out\n")
		os.Exit(1)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		fmt.Printf("Failed to write %s: %s\n", path, err)
		os.Exit(1)
	}
}
