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

package common

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/blinklabs-io/goledger"
)

type GlobalFlags struct {
	Flagset        *flag.FlagSet
	Network        string
	NetworkConfig  string
	Operator       string
	OperatorKey    string
	MaxAttempts    int
	RequestTimeout time.Duration
	Debug          bool
}

func NewGlobalFlags() *GlobalFlags {
	f := &GlobalFlags{
		Flagset: flag.NewFlagSet(os.Args[0], flag.ExitOnError),
	}
	f.Flagset.StringVar(
		&f.Network,
		"network",
		"testnet",
		"specifies the network to connect to",
	)
	f.Flagset.StringVar(
		&f.NetworkConfig,
		"network-config",
		"",
		"path to a JSON network definition. this overrides the -network option",
	)
	f.Flagset.StringVar(
		&f.Operator,
		"operator",
		os.Getenv("OPERATOR_ID"),
		"operator account ID that pays for transactions and queries (defaults to $OPERATOR_ID)",
	)
	f.Flagset.StringVar(
		&f.OperatorKey,
		"operator-key",
		os.Getenv("OPERATOR_KEY"),
		"hex or DER-encoded operator private key (defaults to $OPERATOR_KEY)",
	)
	f.Flagset.IntVar(
		&f.MaxAttempts,
		"max-attempts",
		goledger.DefaultMaxAttempts,
		"maximum number of attempts per request",
	)
	f.Flagset.DurationVar(
		&f.RequestTimeout,
		"timeout",
		goledger.DefaultRequestTimeout,
		"overall timeout per request",
	)
	f.Flagset.BoolVar(&f.Debug, "debug", false, "enable debug logging")
	return f
}

func (f *GlobalFlags) Parse() {
	if err := f.Flagset.Parse(os.Args[1:]); err != nil {
		fmt.Printf("failed to parse command args: %s\n", err)
		os.Exit(1)
	}
	if f.NetworkConfig == "" {
		network := goledger.NetworkByName(f.Network)
		if network.Name == goledger.NetworkInvalid.Name {
			fmt.Printf("Invalid network specified: %s\n", f.Network)
			os.Exit(1)
		}
	}
}
