// Package main provides the lstm command: run the peephole LSTM cell on the
// eager backend, compare it against the graph backend, and encode text.
package main

import (
	"log"
	"os"

	"gopkg.in/urfave/cli.v1"
)

const version = "v0.1.0"

func main() {
	log.SetFlags(0)
	log.SetPrefix("lstm: ")

	if err := newApp().Run(os.Args); err != nil {
		log.Fatalf("%v", err)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "lstm"
	app.Usage = "peephole LSTM cell on eager and deferred-graph backends"
	app.Version = version
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "Optional YAML `file` with n_hidden, n_output, n_features, batch_size, steps, decimal, seed, encoding",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:   "step",
			Usage:  "Run the cell on random input with the eager backend and print every output",
			Flags:  dimensionFlags(),
			Action: stepAction,
		},
		{
			Name:   "compare",
			Usage:  "Run the same cell on the eager and graph backends and check they agree",
			Flags:  append(dimensionFlags(), cli.IntFlag{Name: "decimal", Value: 6, Usage: "required agreement in decimal `places`"}),
			Action: compareAction,
		},
		{
			Name:      "encode",
			Usage:     "Encode sentences into padded token ids and decode them back",
			ArgsUsage: "SENTENCE...",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "encoding", Usage: "`name` of the tokenizer: char or a tiktoken encoding"},
			},
			Action: encodeAction,
		},
		{
			Name:      "run",
			Usage:     "Encode sentences, batch them and run the cell over every time step",
			ArgsUsage: "SENTENCE...",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "encoding", Usage: "`name` of the tokenizer: char or a tiktoken encoding"},
				cli.IntFlag{Name: "batch", Usage: "sentences per `batch`"},
				cli.IntFlag{Name: "embed", Usage: "embedding `width`; 0 feeds one-hot vectors"},
				cli.IntFlag{Name: "hidden", Usage: "state `width` (n_hidden)"},
				cli.IntFlag{Name: "output", Usage: "output `width` (n_output)"},
				cli.BoolFlag{Name: "graph", Usage: "record the unrolled cell and execute it in a graph session"},
			},
			Action: runAction,
		},
	}
	return app
}

func dimensionFlags() []cli.Flag {
	return []cli.Flag{
		cli.IntFlag{Name: "hidden", Usage: "state `width` (n_hidden)"},
		cli.IntFlag{Name: "output", Usage: "output `width` (n_output)"},
		cli.IntFlag{Name: "features", Usage: "input `width` (n_features)"},
		cli.IntFlag{Name: "batch", Usage: "`rows` per input"},
		cli.IntFlag{Name: "steps", Usage: "time `steps` to unroll"},
		cli.Uint64Flag{Name: "seed", Usage: "`seed` of the random input"},
	}
}
