package stream

import (
	"bufio"
	"context"
	"io"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/tapline/tapline/filter"
	"github.com/tapline/tapline/row"
)

// Drive wires the reader task and parser task of spec §4.4 together: it
// reads r line-by-line onto a shared channel while, concurrently,
// driving tokens against that channel in configuration order, and
// returns every non-empty row produced once both tasks have finished. A
// match that binds no variables (a literal-only header line, for
// example) contributes no row.
func Drive(ctx context.Context, r io.Reader, tokens []*TokenExpr, filters *filter.Registry, log logrus.FieldLogger) ([]row.Row, error) {
	ch := make(chan InputToken, 1024)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		return readLines(r, ch, log)
	})

	var rows []row.Row
	g.Go(func() error {
		for _, tok := range tokens {
			terminated, produced := Evaluate(tok, ch, filters)
			for _, r := range produced {
				if len(r) > 0 {
					rows = append(rows, r)
				}
			}
			if terminated {
				break
			}
		}
		// The reader may still hold an EndOfStream (or, defensively, a
		// trailing Line) it hasn't been read past; drain so it never
		// blocks on a full channel after the parser stops consuming.
		for range ch {
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}

// readLines implements the reader task: read from r until a newline is
// seen or EOF, send the accumulated payload as a Line token, and send
// EndOfStream exactly once no further bytes remain.
func readLines(r io.Reader, ch chan<- InputToken, log logrus.FieldLogger) error {
	defer close(ch)
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			ch <- Line(line)
		}
		if err != nil {
			if err == io.EOF {
				ch <- EOS()
				return nil
			}
			log.WithError(err).Error("reading stdin")
			return err
		}
	}
}
