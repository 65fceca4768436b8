package tokenize

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
)

// Stream reads runes from r through the normalizer and delivers them on the
// returned channel, which is closed at end of input. A read failure is sent on
// the error channel before the token channel closes. Stream stops early when
// ctx is cancelled.
func Stream(ctx context.Context, r io.Reader, n Normalizer) (<-chan rune, <-chan error) {
	tokens := make(chan rune, 64)
	errs := make(chan error, 1)

	go func() {
		defer close(tokens)
		defer close(errs)

		reader := bufio.NewReader(n.Reader(r))
		for {
			token, _, err := reader.ReadRune()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				errs <- fmt.Errorf("read token: %w", err)
				return
			}

			select {
			case tokens <- token:
			case <-ctx.Done():
				return
			}
		}
	}()

	return tokens, errs
}
