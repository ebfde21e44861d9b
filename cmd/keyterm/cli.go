package main

import (
	"context"
	"io"

	"github.com/fwojciec/keyterm"
	"github.com/fwojciec/keyterm/store"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdin    io.Reader
	Stdout   io.Writer
	Stderr   io.Writer
	Codec    keyterm.Codec
	Keyterms keyterm.KeytermService
	Index    keyterm.KeytermIndex
	Indexer  *store.Indexer
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Root        string `short:"r" env:"KEYTERM_ROOT" default:"." help:"Document tree root containing the keyterms directory"`
	Concurrency int    `short:"c" default:"4" help:"Concurrent lookups during scan and index"`
	Verbose     bool   `short:"v" help:"Log every document tree operation"`

	Put   PutCmd   `cmd:"" help:"Save a keyterm from a JSON file"`
	Get   GetCmd   `cmd:"" help:"Print the keyterm stored in a keyterm directory"`
	Scan  ScanCmd  `cmd:"" help:"Detect and decode every keyterm in the tree"`
	Index IndexCmd `cmd:"" help:"Record every keyterm in the index"`
	List  ListCmd  `cmd:"" help:"List indexed keyterms"`
}

// PutCmd is the "put" subcommand.
type PutCmd struct {
	File string `arg:"" help:"Keyterm JSON file, or - for stdin"`
}

// GetCmd is the "get" subcommand.
type GetCmd struct {
	Dir string `arg:"" help:"Keyterm directory name, e.g. love or love_noun"`
}

// ScanCmd is the "scan" subcommand.
type ScanCmd struct{}

// IndexCmd is the "index" subcommand.
type IndexCmd struct{}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Term string `short:"t" help:"Only list entries for this term"`
}
