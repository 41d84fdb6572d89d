package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/babakhm83/UT-OS/pkg/kernel/clock"
	"github.com/babakhm83/UT-OS/pkg/kernel/console"
	"github.com/babakhm83/UT-OS/pkg/kernel/proc"
	"github.com/babakhm83/UT-OS/pkg/kernel/sys"
)

type opts struct {
	cpus    int
	workers int
	ticks   int

	timeSlice int
	rrCap     int
	aging     int
	seed      uint64

	debug bool
}

func main() {
	var o opts

	root := &cobra.Command{
		Use:   "utos",
		Short: "A teaching-kernel simulator: multi-level scheduler, console line editor, reentrant locks.",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	root.PersistentFlags().IntVar(&o.cpus, "cpus", 2, "number of simulated CPUs")
	root.PersistentFlags().IntVar(&o.ticks, "ticks", 2000, "timer ticks to simulate")
	root.PersistentFlags().IntVar(&o.timeSlice, "time-slice", 10, "base quanta per queue level")
	root.PersistentFlags().IntVar(&o.rrCap, "rr-cap", 5, "consecutive-quanta cap on the round-robin queue")
	root.PersistentFlags().IntVar(&o.aging, "aging", 800, "ticks of waiting before a queue promotion")
	root.PersistentFlags().Uint64Var(&o.seed, "seed", 1, "seed for the SJF tie-break generator")
	root.PersistentFlags().BoolVar(&o.debug, "debug", false, "dump the final kernel state")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Boot the kernel, run a mixed workload across all three queues, and report.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSim(cmd.Context(), o)
		},
	}
	runCmd.Flags().IntVar(&o.workers, "workers", 6, "workload processes to spawn")

	consoleCmd := &cobra.Command{
		Use:   "console",
		Short: "Drive the console line editor with a scripted keyboard session.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsole(cmd.Context(), o)
		},
	}

	root.AddCommand(runCmd)
	root.AddCommand(consoleCmd)

	if err := root.Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

// boot assembles a kernel: clock, table, console, facade.
func boot(o opts) (*proc.Table, *console.Console, *sys.Facade) {
	clk := clock.New()
	tbl := proc.New(clk, proc.Config{
		TimeSlice:      o.timeSlice,
		RRCap:          o.rrCap,
		AgingThreshold: o.aging,
		Seed:           o.seed,
	}, o.cpus)

	cons := console.New(tbl, console.NewScreen(), os.Stdout)
	tbl.SetPrinter(cons)
	cons.SetDumper(tbl.Dump)

	return tbl, cons, sys.New(tbl, cons)
}

// startCPUs launches one scheduler loop per CPU.
func startCPUs(ctx context.Context, tbl *proc.Table) {
	for _, c := range tbl.CPUs() {
		go tbl.Run(ctx, c)
	}
}

func runSim(ctx context.Context, o opts) error {
	tbl, _, facade := boot(o)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// init reaps orphans for the lifetime of the simulation.
	tbl.UserInit("init", func(p *proc.Proc) {
		for {
			if _, err := tbl.Wait(p); err != nil {
				tbl.Yield(p)
			}
		}
	})

	worker := func(quanta int) proc.Program {
		return func(p *proc.Proc) {
			for i := 0; i < quanta; i++ {
				tbl.Yield(p)
			}
			facade.Exit(p)
		}
	}

	var pids []int
	for i := 0; i < o.workers; i++ {
		p, err := tbl.Spawn("worker"+strconv.Itoa(i), worker(200+50*i))
		if err != nil {
			return fmt.Errorf("spawn: %w", err)
		}
		pids = append(pids, p.PID())
	}

	// Spread the workload: a third keeps its starting queue (FCFS, except
	// pid 2, which the fork rule keeps on round-robin), a third declares
	// SJF bursts, a third is promoted straight to round-robin.
	for i, pid := range pids {
		switch i % 3 {
		case 0:
			// keep the starting queue
		case 1:
			if err := tbl.SetQueue(pid, 1); err != nil {
				slog.Warn("set_queue", "pid", pid, "err", err)
			}
			if err := tbl.SetSJFInfo(pid, 2+i, 50+5*i); err != nil {
				slog.Warn("set_sjf_info", "pid", pid, "err", err)
			}
		case 2:
			if err := tbl.SetQueue(pid, 0); err != nil {
				slog.Warn("set_queue", "pid", pid, "err", err)
			}
		}
	}

	startCPUs(ctx, tbl)

	// Timer: one tick per millisecond of wall clock.
	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()
	for i := 0; i < o.ticks; i++ {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			tbl.Tick()
		}
	}
	cancel()

	renderReport(tbl.Snapshot())
	if o.debug {
		spew.Fdump(os.Stderr, tbl.Snapshot())
	}
	return nil
}

func renderReport(infos []proc.ProcInfo) {
	rows := [][]string{}
	for _, in := range infos {
		rows = append(rows, []string{
			in.Name,
			strconv.Itoa(in.PID),
			in.State.String(),
			strconv.Itoa(in.Queue),
			strconv.Itoa(in.WaitTime),
			strconv.Itoa(in.Confidence),
			strconv.Itoa(in.BurstTime),
			strconv.Itoa(in.ConsecutiveRuns),
			strconv.FormatUint(in.Arrival, 10),
			strconv.Itoa(in.Syscalls),
		})
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"name", "pid", "state", "queue", "wait", "conf", "burst", "consec", "arrival", "syscalls"})
	table.AppendBulk(rows)
	table.Render()
	fmt.Print(buf.String())
}

// runConsole boots the kernel with a shell that echoes every line it
// reads, then feeds a scripted keyboard session through the interrupt
// path: plain editing, an inline expression, and the history command.
func runConsole(ctx context.Context, o opts) error {
	tbl, cons, _ := boot(o)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tbl.UserInit("init", func(p *proc.Proc) {
		for {
			if _, err := tbl.Wait(p); err != nil {
				tbl.Yield(p)
			}
		}
	})

	if _, err := tbl.Spawn("sh", func(p *proc.Proc) {
		buf := make([]byte, console.InputBuf)
		for {
			n, err := cons.Read(p, buf)
			if err != nil {
				return
			}
			if n == 0 { // ^D
				return
			}
			cons.Printf("got: %s", string(buf[:n]))
		}
	}); err != nil {
		return fmt.Errorf("spawn shell: %w", err)
	}

	startCPUs(ctx, tbl)

	script := [][]int{
		keys("type 12+30=? anywhere\n"),
		keys("history\n"),
		{console.Ctrl('D')},
	}

	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()
	for _, line := range script {
		cons.Intr(feeder(line))
		// Let the shell drain the committed line.
		for i := 0; i < 50; i++ {
			<-ticker.C
			tbl.Tick()
		}
	}
	cancel()

	fmt.Println("--- screen ---")
	for r := 0; r < console.Rows; r++ {
		if line := cons.Screen().Line(r); line != "" {
			fmt.Println(line)
		}
	}
	return nil
}

func keys(s string) []int {
	out := make([]int, len(s))
	for i := 0; i < len(s); i++ {
		out[i] = int(s[i])
	}
	return out
}

// feeder returns a getc producer over a fixed keystroke sequence.
func feeder(seq []int) func() int {
	i := 0
	return func() int {
		if i >= len(seq) {
			return -1
		}
		c := seq[i]
		i++
		return c
	}
}
