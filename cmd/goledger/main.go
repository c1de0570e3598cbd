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
	"fmt"
	"os"

	"github.com/blinklabs-io/goledger/cmd/common"
)

func main() {
	f := common.NewGlobalFlags()
	f.Parse()

	if len(f.Flagset.Args()) == 0 {
		fmt.Printf("You must specify a subcommand (query, transfer, submit-message, append-file, offline)\n")
		os.Exit(1)
	}
	switch f.Flagset.Arg(0) {
	case "query":
		runQuery(f)
	case "transfer":
		runTransfer(f)
	case "submit-message":
		runSubmitMessage(f)
	case "append-file":
		runAppendFile(f)
	case "offline":
		runOffline(f)
	default:
		fmt.Printf("Unknown subcommand: %s\n", f.Flagset.Arg(0))
		os.Exit(1)
	}
}
