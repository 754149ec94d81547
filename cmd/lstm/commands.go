package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/urfave/cli.v1"
	"gorgonia.org/gorgonia"

	"github.com/born-ml/lstm/internal/backend/cpu"
	"github.com/born-ml/lstm/internal/backend/graph"
	"github.com/born-ml/lstm/internal/config"
	"github.com/born-ml/lstm/internal/data"
	"github.com/born-ml/lstm/internal/nn"
	"github.com/born-ml/lstm/internal/parity"
	"github.com/born-ml/lstm/internal/tensor"
	"github.com/born-ml/lstm/internal/tokenizer"
)

// loadConfig reads the global --config file and applies command flags on top.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load(c.GlobalString("config"))
	if err != nil {
		return config.Config{}, err
	}
	ints := map[string]*int{
		"hidden":   &cfg.NumHidden,
		"output":   &cfg.NumOutput,
		"features": &cfg.NumFeatures,
		"batch":    &cfg.BatchSize,
		"steps":    &cfg.Steps,
		"decimal":  &cfg.Decimal,
	}
	for name, dst := range ints {
		if c.IsSet(name) {
			*dst = c.Int(name)
		}
	}
	if c.IsSet("seed") {
		cfg.Seed = c.Uint64("seed")
	}
	if c.IsSet("encoding") {
		cfg.Encoding = c.String("encoding")
	}
	return cfg, cfg.Validate()
}

func stepAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	init := nn.NewVarianceScaling()
	in, err := parity.NewInputs(cfg.Parity(), init)
	if err != nil {
		return err
	}
	result, err := parity.RunEager(cfg.Parity(), init, in)
	if err != nil {
		return err
	}

	w := c.App.Writer
	for t, h := range result.Outputs {
		fmt.Fprintf(w, "h[%d] %v\n", t, h)
	}
	fmt.Fprintf(w, "c %v\n", result.Final.C)
	fmt.Fprintf(w, "m %v\n", result.Final.M)
	return nil
}

func compareAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	report, err := parity.Compare(cfg.Parity())
	if err != nil {
		return err
	}

	w := c.App.Writer
	fmt.Fprintf(w, "n_hidden=%d n_output=%d n_features=%d batch=%d steps=%d\n",
		cfg.NumHidden, cfg.NumOutput, cfg.NumFeatures, cfg.BatchSize, cfg.Steps)
	for t := range report.Eager.Outputs {
		fmt.Fprintf(w, "step %d eager %v\n", t, report.Eager.Outputs[t])
		fmt.Fprintf(w, "step %d graph %v\n", t, report.Graph.Outputs[t])
	}
	fmt.Fprintf(w, "max |eager-graph| = %.3g (tolerance %.3g)\n", report.MaxAbsDiff, parity.Tolerance(cfg.Decimal))

	if err := report.Err(); err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	fmt.Fprintln(w, "OK")
	return nil
}

func encodeAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	sentences, err := sentencesFrom(c)
	if err != nil {
		return err
	}

	tok, err := tokenizer.New(cfg.Encoding)
	if err != nil {
		return err
	}
	enc := tokenizer.NewSentenceEncoder(tok)
	batch, err := enc.Encode(sentences)
	if err != nil {
		return err
	}
	decoded, err := enc.Decode(batch.IDs)
	if err != nil {
		return err
	}

	for i := range batch.IDs {
		fmt.Fprintf(c.App.Writer, "%v len=%d %q\n", batch.IDs[i], batch.Lengths[i], decoded[i])
	}
	return nil
}

func runAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	sentences, err := sentencesFrom(c)
	if err != nil {
		return err
	}

	r, err := newRunner(cfg, c.Int("embed"), c.Bool("graph"))
	if err != nil {
		return err
	}
	sampler, err := data.NewSampler(sentences, cfg.BatchSize, data.WithSeed(cfg.Seed))
	if err != nil {
		return err
	}

	for batch := range sampler.Batches() {
		last, err := r.lastOutputs(batch)
		if err != nil {
			return err
		}
		for i, s := range batch {
			if last[i] == nil {
				continue
			}
			fmt.Fprintf(c.App.Writer, "%q -> %v\n", s, last[i])
		}
	}
	return nil
}

// runner encodes sentence batches and unrolls the cell over them.
type runner struct {
	cfg       config.Config
	tok       tokenizer.Tokenizer
	enc       *tokenizer.SentenceEncoder
	embedding *nn.Embedding // nil feeds one-hot vectors
	init      nn.Initializer
	cell      *nn.Cell[*tensor.Dense]
	graph     bool
}

func newRunner(cfg config.Config, embed int, useGraph bool) (*runner, error) {
	tok, err := tokenizer.New(cfg.Encoding)
	if err != nil {
		return nil, err
	}

	r := &runner{
		cfg:   cfg,
		tok:   tok,
		enc:   tokenizer.NewSentenceEncoder(tok),
		init:  nn.NewVarianceScaling(),
		graph: useGraph,
	}
	if embed > 0 {
		r.embedding, err = nn.NewEmbedding(tok.VocabSize(), embed, nil)
		if err != nil {
			return nil, err
		}
	}
	r.cell, err = nn.NewCell[*tensor.Dense](cpu.New(), r.init, cfg.NumHidden, cfg.NumOutput)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// lastOutputs returns, for every sentence of batch, the cell output at the
// sentence's last token (its EOS). Rows of sentences with no tokens are nil.
func (r *runner) lastOutputs(batch []string) ([][]float64, error) {
	encoded, err := r.enc.Encode(batch)
	if err != nil {
		return nil, err
	}
	last := make([][]float64, len(batch))
	if encoded.MaxLen == 0 {
		return last, nil
	}

	var xs []*tensor.Dense
	if r.embedding != nil {
		xs, err = r.embedding.Lookup(encoded.IDs)
	} else {
		xs, err = nn.OneHot(encoded.IDs, r.tok.VocabSize())
	}
	if err != nil {
		return nil, err
	}

	var outputs []*tensor.Dense
	if r.graph {
		outputs, err = unrollGraph(r.cfg, r.init, xs)
	} else {
		outputs, err = unrollEager(r.cell, xs)
	}
	if err != nil {
		return nil, err
	}

	for i, n := range encoded.Lengths {
		if n > 0 {
			last[i] = append([]float64(nil), outputs[n-1].Row(i)...)
		}
	}
	return last, nil
}

func unrollEager(cell *nn.Cell[*tensor.Dense], xs []*tensor.Dense) ([]*tensor.Dense, error) {
	state, err := cell.InitState(xs[0].Rows())
	if err != nil {
		return nil, err
	}
	outputs, _, err := nn.Unroll(cell, xs, state)
	return outputs, err
}

// unrollGraph records one graph per batch shape and runs it in a session.
func unrollGraph(cfg config.Config, init nn.Initializer, xs []*tensor.Dense) ([]*tensor.Dense, error) {
	b := graph.New()
	cell, err := nn.NewCell[*gorgonia.Node](b, init, cfg.NumHidden, cfg.NumOutput)
	if err != nil {
		return nil, err
	}

	nodes := make([]*gorgonia.Node, len(xs))
	feeds := make(graph.Feeds, len(xs))
	for t, x := range xs {
		p, err := b.Placeholder(fmt.Sprintf("x%d", t), x.Shape())
		if err != nil {
			return nil, err
		}
		nodes[t] = p
		feeds[p] = x
	}

	state, err := cell.InitState(xs[0].Rows())
	if err != nil {
		return nil, err
	}
	outputs, _, err := nn.Unroll(cell, nodes, state)
	if err != nil {
		return nil, err
	}

	sess, err := graph.NewSession(b, outputs...)
	if err != nil {
		return nil, err
	}
	defer sess.Close() //nolint:errcheck // read-only session

	return sess.Run(feeds)
}

// sentencesFrom returns the command arguments, or stdin lines when there are none.
func sentencesFrom(c *cli.Context) ([]string, error) {
	if c.NArg() > 0 {
		return c.Args(), nil
	}
	var sentences []string
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if line := strings.TrimRight(scanner.Text(), "\r"); line != "" {
			sentences = append(sentences, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	if len(sentences) == 0 {
		return nil, errors.New("no sentences given")
	}
	return sentences, nil
}
