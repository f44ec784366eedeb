package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/freeeve/openingstats/internal/logx"
	"github.com/freeeve/openingstats/internal/rules"
	"github.com/freeeve/openingstats/internal/store"
)

func main() {
	var (
		indexPath = flag.String("index", "index.osx", "Index file to query")
		rawID     = flag.String("id", "", "Query by raw canonical ID instead of FEN")
	)
	flag.Parse()

	logger := logx.NewQuietLogger()

	if *rawID == "" && flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: query [-index index.osx] \"<FEN>\"")
		flag.PrintDefaults()
		os.Exit(1)
	}

	idx, err := store.Load(*indexPath)
	if err != nil {
		logger.Fatal().Err(err).Str("index", *indexPath).Msg("load index")
	}

	id := *rawID
	if id == "" {
		id, err = rules.NormalizeFEN(flag.Arg(0))
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid FEN")
		}
	}

	// An absent position is a normal miss: the zero triple.
	o := idx.Lookup(id)
	out := map[string]uint64{
		"count": o.Count(),
		"white": o.White,
		"draw":  o.Draws,
		"black": o.Black,
	}
	enc := json.NewEncoder(os.Stdout)
	if err := enc.Encode(out); err != nil {
		logger.Fatal().Err(err).Msg("encode output")
	}
}
