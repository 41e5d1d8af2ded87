// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/logger"

	"github.com/wotledger/wotd/document"
	"github.com/wotledger/wotd/keypair"
	"github.com/wotledger/wotd/reservoir"
	"github.com/wotledger/wotd/storage"
)

// setup command handler
//
// commands that only work on their arguments these commands cannot
// access any internal database or states or the configuration file
func processSetupCommand(program string, arguments []string) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {
	case "validate", "check":
		if 2 != len(arguments) {
			exitwithstatus.Message("usage: validate KIND FILE")
		}
		kind := kindArgument(arguments[0])
		e, err := document.NewValidator(keypair.Ed25519{}).Validate(kind, readFile(arguments[1]))
		if nil != err {
			exitwithstatus.Message("%s: rejected: %s", arguments[1], err)
		}
		printJson("", describe(e))

	case "keypair", "key":
		k := keyArgument(arguments)
		fmt.Printf("%s\n", k.Pubkey())

	case "sign":
		if 3 != len(arguments) {
			exitwithstatus.Message("usage: sign SALT PASSWORD FILE")
		}
		k := keyArgument(arguments[:2])
		fmt.Printf("%s\n", k.Sign(readFile(arguments[2])))

	case "config-test", "cfg":
		return false

	case "submit", "apply", "revert", "head", "pending", "indicators", "archived", "memberships":
		return false // defer processing until stores are open

	case "version", "v":
		fmt.Printf("%s\n", version)
		return true

	default:
		switch command {
		case "help", "h", "?":
		case "", " ":
			fmt.Printf("error: missing command\n")
		default:
			fmt.Printf("error: no such command: %q\n", command)
		}
		fmt.Printf("usage: %s [--help] [--verbose] --config-file=FILE [--define=NAME=VALUE] [[command|help] arguments...]\n", program)

		fmt.Printf("supported commands:\n\n")
		fmt.Printf("  help                       (h)      - display this message\n\n")
		fmt.Printf("  version                    (v)      - display version sting\n\n")

		fmt.Printf("  validate KIND FILE         (check)  - validate a document and display its hash\n")
		fmt.Printf("                                        KIND: identity membership certification\n")
		fmt.Printf("                                              revocation transaction block\n")
		fmt.Printf("\n")

		fmt.Printf("  keypair SALT PASSWORD      (key)    - display the public key for a salt and password\n")
		fmt.Printf("  sign SALT PASSWORD FILE             - display the signature of the file contents\n")
		fmt.Printf("\n")

		fmt.Printf("  config-test                (cfg)    - just check the configuration file\n")
		fmt.Printf("\n")

		fmt.Printf("  submit KIND FILE...                 - add documents to the pending pool\n")
		fmt.Printf("  apply FILE...                       - apply blocks in order\n")
		fmt.Printf("  revert [COUNT]                      - undo the last COUNT blocks (default 1)\n")
		fmt.Printf("  head                                - display the last applied block\n")
		fmt.Printf("  pending                             - display documents waiting for a block\n")
		fmt.Printf("  indicators                          - display the current indicators\n")
		fmt.Printf("  archived KIND HASH                  - display an archived document\n")
		fmt.Printf("  memberships PUBKEY [BEFORE]         - display memberships of a key\n")
		fmt.Printf("\n")

		exitwithstatus.Exit(1)
	}

	// indicate processing complete and preform normal exit from main
	return true
}

// configuration file enquiry commands
// have configuration file read and decoded, but nothing else
func processConfigCommand(arguments []string, options *Configuration) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
	}

	switch command {
	case "config-test", "cfg":
		printJson("", options)

	default: // unknown commands fall through to data command
		return false
	}

	// indicate processing complete and perform normal exit from main
	return true
}

// data command handler
// all stores are open so these commands can access and/or change them
func processDataCommand(log *logger.L, n *node, arguments []string) {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	log.Infof("command: %s  arguments: %q", command, arguments)

	switch command {

	case "submit":
		if len(arguments) < 2 {
			exitwithstatus.Message("usage: submit KIND FILE...")
		}
		kind := kindArgument(arguments[0])
		for _, fileName := range arguments[1:] {
			printJson(fileName, submit(kind, readFile(fileName)))
		}

	case "apply":
		if len(arguments) < 1 {
			exitwithstatus.Message("usage: apply FILE...")
		}
		validator := document.NewValidator(keypair.Ed25519{})
		for _, fileName := range arguments {
			e, err := validator.Validate(document.BlockDocument, readFile(fileName))
			if nil != err {
				exitwithstatus.Message("%s: rejected: %s", fileName, err)
			}
			b := e.(*document.Block)
			if n.currency != b.Currency {
				exitwithstatus.Message("%s: currency: %q expected: %q", fileName, b.Currency, n.currency)
			}
			err = n.ledger.ApplyBlock(b)
			if nil != err {
				exitwithstatus.Message("%s: apply error: %s", fileName, err)
			}
			fmt.Printf("applied: %s\n", b.UID())
		}

	case "revert":
		count := 1
		if len(arguments) > 0 {
			c, err := strconv.Atoi(arguments[0])
			if nil != err || c < 1 {
				exitwithstatus.Message("invalid count: %q", arguments[0])
			}
			count = c
		}
		for i := 0; i < count; i += 1 {
			b, err := n.ledger.RevertBlock()
			if nil != err {
				exitwithstatus.Message("revert error: %s", err)
			}
			fmt.Printf("reverted: %s\n", b.UID())
		}

	case "head":
		number, hash, err := n.ledger.Head()
		if nil != err {
			exitwithstatus.Message("head error: %s", err)
		}
		printJson("", map[string]interface{}{
			"number": number,
			"hash":   hash,
		})

	case "pending":
		printJson("", pending(n))

	case "indicators":
		printJson("", indicators(n))

	case "archived":
		if 2 != len(arguments) {
			exitwithstatus.Message("usage: archived KIND HASH")
		}
		d, ok := storage.GetDocument(kindArgument(arguments[0]), arguments[1])
		if !ok {
			exitwithstatus.Message("not archived: %s %s", arguments[0], arguments[1])
		}
		fmt.Print(d.Raw)

	case "memberships":
		if len(arguments) < 1 {
			exitwithstatus.Message("usage: memberships PUBKEY [BEFORE]")
		}
		printJson("", memberships(n, arguments))

	default:
		exitwithstatus.Message("error: no such command: %q", command)
	}
}

func kindArgument(s string) document.Kind {
	kind, err := document.KindFromString(s)
	if nil != err {
		exitwithstatus.Message("kind: %q error: %s", s, err)
	}
	return kind
}

func keyArgument(arguments []string) *keypair.KeyPair {
	if 2 != len(arguments) {
		exitwithstatus.Message("usage: keypair SALT PASSWORD")
	}
	k, err := keypair.FromPassword(arguments[0], arguments[1])
	if nil != err {
		exitwithstatus.Message("keypair error: %s", err)
	}
	return k
}

func readFile(fileName string) string {
	b, err := os.ReadFile(fileName)
	if nil != err {
		exitwithstatus.Message("read: %q error: %s", fileName, err)
	}
	return string(b)
}

// add one document through the reservoir
func submit(kind document.Kind, raw string) interface{} {
	var record interface{}
	duplicate := false
	var err error

	switch kind {
	case document.IdentityDocument:
		record, duplicate, err = reservoir.StoreIdentity(raw)
	case document.MembershipDocument:
		record, duplicate, err = reservoir.StoreMembership(raw)
	case document.CertificationDocument:
		record, duplicate, err = reservoir.StoreCertification(raw)
	case document.RevocationDocument:
		record, duplicate, err = reservoir.StoreRevocation(raw)
	default:
		exitwithstatus.Message("kind: %s cannot be submitted", kind)
	}
	if nil != err {
		exitwithstatus.Message("%s rejected: %s", kind, err)
	}
	return map[string]interface{}{
		"duplicate": duplicate,
		"record":    record,
	}
}
