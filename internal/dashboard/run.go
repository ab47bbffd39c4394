package dashboard

import (
	"context"
	"errors"
	"io"
	"time"
)

// clearScreen moves the cursor home and clears the terminal.
const clearScreen = "\033[H\033[2J"

// RunOptions controls the auto-refresh loop.
type RunOptions struct {
	// Interval between refreshes. Zero renders once and returns.
	Interval time.Duration
	// Timeout bounds each refresh cycle. Zero leaves cycles unbounded.
	Timeout time.Duration
	// ClearScreen redraws in place instead of appending frames.
	ClearScreen bool
}

// Run refreshes and renders the board, then repeats on every tick until
// ctx is done. Ticks that arrive while a cycle is still running are
// dropped by the ticker, so cycles never overlap. Refresh errors are
// shown on the board rather than ending the loop.
func (b *Board) Run(ctx context.Context, w io.Writer, opts RunOptions) error {
	if err := b.cycle(ctx, w, opts); err != nil {
		return err
	}
	if opts.Interval <= 0 {
		return nil
	}

	ticker := time.NewTicker(opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := b.cycle(ctx, w, opts); err != nil {
				return err
			}
		}
	}
}

// cycle returns only render errors.
func (b *Board) cycle(ctx context.Context, w io.Writer, opts RunOptions) error {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	if err := b.Refresh(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		b.log.Error().Err(err).Msg("refresh failed")
	}
	if opts.ClearScreen {
		if _, err := io.WriteString(w, clearScreen); err != nil {
			return err
		}
	}
	return b.Render(w)
}
