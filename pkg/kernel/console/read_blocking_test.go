package console

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/babakhm83/UT-OS/pkg/kernel/clock"
	"github.com/babakhm83/UT-OS/pkg/kernel/proc"
)

// startConsoleKernel boots a one-CPU kernel with a console attached so
// blocking reads can sleep and be woken by the interrupt path.
func startConsoleKernel(t *testing.T) (*Console, *proc.Table, func()) {
	t.Helper()
	tbl := proc.New(clock.New(), proc.DefaultConfig(), 1)
	c := New(tbl, NewScreen(), &bytes.Buffer{})
	tbl.SetPrinter(c)

	tbl.UserInit("init", func(p *proc.Proc) {
		for {
			if _, err := tbl.Wait(p); err != nil {
				tbl.Yield(p)
			}
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	for _, cp := range tbl.CPUs() {
		go tbl.Run(ctx, cp)
	}
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ctx.Done():
				close(done)
				return
			default:
				tbl.Tick()
				time.Sleep(100 * time.Microsecond)
			}
		}
	}()
	return c, tbl, func() {
		cancel()
		<-done
	}
}

func TestRead_BlocksUntilCommit(t *testing.T) {
	c, tbl, stop := startConsoleKernel(t)
	defer stop()

	type result struct {
		line string
		err  error
	}
	got := make(chan result, 1)

	reader, err := tbl.Spawn("reader", func(p *proc.Proc) {
		buf := make([]byte, 64)
		n, err := c.Read(p, buf)
		got <- result{line: string(buf[:n]), err: err}
	})
	require.NoError(t, err)

	// Let the reader reach its sleep before any input arrives.
	require.Eventually(t, func() bool {
		return reader.State() == proc.Sleeping
	}, 5*time.Second, time.Millisecond)

	typeString(c, "wake up\n")

	select {
	case r := <-got:
		require.NoError(t, r.err)
		assert.Equal(t, "wake up\n", r.line)
	case <-time.After(5 * time.Second):
		t.Fatal("reader never woke")
	}
}

func TestRead_KilledWhileSleepingFails(t *testing.T) {
	c, tbl, stop := startConsoleKernel(t)
	defer stop()

	got := make(chan error, 1)
	reader, err := tbl.Spawn("reader", func(p *proc.Proc) {
		buf := make([]byte, 64)
		_, err := c.Read(p, buf)
		got <- err
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return reader.State() == proc.Sleeping
	}, 5*time.Second, time.Millisecond)

	require.NoError(t, tbl.Kill(reader.PID()))

	select {
	case err := <-got:
		assert.ErrorIs(t, err, proc.ErrKilled)
	case <-time.After(5 * time.Second):
		t.Fatal("killed reader never returned")
	}
}

func TestWrite_ForwardsToBothSinks(t *testing.T) {
	tbl := proc.New(clock.New(), proc.DefaultConfig(), 1)
	uart := &bytes.Buffer{}
	c := New(tbl, NewScreen(), uart)

	n, err := c.Write(nil, []byte("out\n"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "out\n", uart.String())
	assert.Equal(t, "out", c.screen.Line(0))
}
