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
	"fmt"
	"log/slog"
	"os"

	"github.com/blinklabs-io/goledger"
	"github.com/blinklabs-io/goledger/entity"
	"github.com/blinklabs-io/goledger/keys"
)

// CreateClient builds a client for the network selected by the global flags. The operator is
// optional, and commands that need one check for it themselves
func CreateClient(f *GlobalFlags) *goledger.Client {
	level := slog.LevelInfo
	if f.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}),
	)
	var network goledger.Network
	if f.NetworkConfig != "" {
		networkConfig, err := goledger.NewNetworkConfigFromFile(f.NetworkConfig)
		if err != nil {
			fmt.Printf("Failed to load network config: %s\n", err)
			os.Exit(1)
		}
		network, err = networkConfig.Network()
		if err != nil {
			fmt.Printf("Invalid network config: %s\n", err)
			os.Exit(1)
		}
	} else {
		network = goledger.NetworkByName(f.Network)
	}
	opts := []goledger.ClientOptionFunc{
		goledger.WithNetwork(network),
		goledger.WithLogger(logger),
		goledger.WithAutoValidateChecksums(true),
		goledger.WithMaxAttempts(f.MaxAttempts),
		goledger.WithRequestTimeout(f.RequestTimeout),
		goledger.WithRetryObserver(func(event goledger.RetryEvent) {
			logger.Debug(
				"retrying request",
				"execution_id", event.ExecutionId,
				"attempt", event.Attempt,
				"node", event.Node.String(),
				"backoff", event.Backoff,
				"error", event.Err,
			)
		}),
	}
	if f.Operator != "" {
		key, err := keys.ParsePrivateKey(f.OperatorKey)
		if err != nil {
			fmt.Printf("Invalid operator key: %s\n", err)
			os.Exit(1)
		}
		operator, err := parseEntityId(f.Operator, network)
		if err != nil {
			fmt.Printf("Invalid operator account ID: %s\n", err)
			os.Exit(1)
		}
		opts = append(opts, goledger.WithOperator(operator, key))
	}
	client, err := goledger.NewClient(opts...)
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	return client
}

func parseEntityId(s string, network goledger.Network) (entity.EntityId, error) {
	if network.LedgerId == nil {
		return entity.Parse(s)
	}
	return entity.ParseChecked(s, network.LedgerId)
}

// MustParseEntityId parses an entity ID argument, validating its checksum against the client
// network, and exits on failure
func MustParseEntityId(client *goledger.Client, name string, s string) entity.EntityId {
	id, err := client.ParseEntityId(s)
	if err != nil {
		fmt.Printf("Invalid %s: %s\n", name, err)
		os.Exit(1)
	}
	return id
}

// RequireOperator exits unless the client has an operator
func RequireOperator(client *goledger.Client) {
	if client.Operator() == nil {
		fmt.Printf("This command requires an operator: specify -operator and -operator-key\n")
		os.Exit(1)
	}
}
