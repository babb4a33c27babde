// Command pcemu-bench fuzz-drives the PIT, DMA, and PIC state machines in
// isolation, independent of the rest of the core, checking three
// invariants: a mode-2 PIT counter's output never toggles before its
// programmed reload has elapsed, a DMA channel's count decreases with at
// most one underflow wrap, and the PIC never reports INTR once every line
// it was raised on has been lowered again, across random
// raise/lower/INTA/EOI sequences. Grounded on the subcommand-per-concern layout in
// oisee-z80-optimizer's cmd/z80opt/main.go (a cobra root command with one
// RunE subcommand per search mode).
package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/spf13/cobra"

	"github.com/valerio/go-pcemu/internal/bit"
	"github.com/valerio/go-pcemu/internal/dma"
	"github.com/valerio/go-pcemu/internal/pic"
	"github.com/valerio/go-pcemu/internal/pit"
)

func main() {
	var seed int64
	var iterations int

	root := &cobra.Command{
		Use:   "pcemu-bench",
		Short: "fuzz-drive the PIT/DMA/PIC state machines and report invariant violations",
	}
	root.PersistentFlags().Int64Var(&seed, "seed", 1, "PRNG seed")
	root.PersistentFlags().IntVar(&iterations, "iterations", 10000, "fuzz iterations")

	root.AddCommand(
		&cobra.Command{
			Use:   "pit",
			Short: "fuzz PIT channel programming and reload/output invariants",
			RunE: func(cmd *cobra.Command, args []string) error {
				return fuzzPIT(rand.New(rand.NewSource(seed)), iterations)
			},
		},
		&cobra.Command{
			Use:   "dma",
			Short: "fuzz DMA channel programming and count-decrement invariants",
			RunE: func(cmd *cobra.Command, args []string) error {
				return fuzzDMA(rand.New(rand.NewSource(seed)), iterations)
			},
		},
		&cobra.Command{
			Use:   "pic",
			Short: "fuzz PIC raise/EOI sequences and check for INTR with no line raised",
			RunE: func(cmd *cobra.Command, args []string) error {
				return fuzzPIC(rand.New(rand.NewSource(seed)), iterations)
			},
		},
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// fuzzPIT programs channel 0 with a random reload (built from two
// independently fuzzed bytes via bit.Combine, the way a real LOHI-mode
// driver writes LSB then MSB) and asserts the channel's output never
// toggles before at least `reload` ticks have elapsed.
func fuzzPIT(r *rand.Rand, iterations int) error {
	for i := 0; i < iterations; i++ {
		p := pit.New(nil)
		hi, lo := uint8(r.Intn(256)), uint8(r.Intn(256))
		reload := bit.Combine(hi, lo)
		if reload == 0 {
			reload = 1 // a zero reload means 0x10000, out of scope for this quick check
		}

		p.WritePort(0x43, 0x34) // channel 0, LOHI, mode 2, binary
		p.WritePort(0x40, lo)
		p.WritePort(0x40, hi)

		var toggled int
		for tick := uint32(0); tick < uint32(reload)-1; tick++ {
			before := p.Channel(0).Output()
			p.Tick(1)
			if p.Channel(0).Output() != before {
				toggled++
			}
		}
		if toggled != 0 {
			return fmt.Errorf("iteration %d: channel 0 output toggled %d time(s) before reaching its %d-tick reload", i, toggled, reload)
		}
	}
	fmt.Printf("pit: %d iterations, no premature output toggles\n", iterations)
	return nil
}

// fuzzDMA programs a random channel with a random count and asserts
// CurrentCount strictly decreases (or wraps exactly once, on underflow)
// across a bounded number of state-machine steps with DREQ held high.
func fuzzDMA(r *rand.Rand, iterations int) error {
	for i := 0; i < iterations; i++ {
		p := dma.NewPair(nil)
		channel := r.Intn(4) // controller 0 only, to keep the port math simple
		hi, lo := uint8(r.Intn(256)), uint8(r.Intn(256))
		count := bit.Combine(hi, lo)

		reg := channel * 2
		p.WritePort(0x0C, 0)                // clear flip-flop
		p.WritePort(uint16(reg), 0)         // address LSB (unused by this check)
		p.WritePort(uint16(reg), 0)         // address MSB
		p.WritePort(uint16(reg+1), lo)      // count LSB
		p.WritePort(uint16(reg+1), hi)      // count MSB
		p.WritePort(0x0B, byte(0x48|channel)) // single mode, memory->device, channel
		p.WritePort(0x0A, byte(channel))      // unmask

		ch := p.Channel(channel)
		ch.WriteByte = func(byte) {}
		last := ch.CurrentCount()
		_ = count
		underflowed := false
		for step := 0; step < 70000; step++ {
			p.SetDREQ(channel, true)
			p.Tick(true)
			cur := ch.CurrentCount()
			if cur > last {
				if underflowed {
					return fmt.Errorf("iteration %d: channel %d count increased twice (%d -> %d), expected exactly one underflow wrap", i, channel, last, cur)
				}
				underflowed = true
			}
			last = cur
			if ch.Masked() {
				break
			}
		}
	}
	fmt.Printf("dma: %d iterations, count decremented monotonically with at most one underflow wrap\n", iterations)
	return nil
}

// fuzzPIC raises a random sequence of IRQs on the master chip from a
// fixed source id, interleaved with random INTA/EOI cycles, and asserts
// HasINTR never reports true with no line actually raised. Every master
// line is set level-triggered first: an edge-triggered request stays in
// IRR after its line is lowered, which this invariant does not allow for.
func fuzzPIC(r *rand.Rand, iterations int) error {
	const source = 0
	for i := 0; i < iterations; i++ {
		pair := pic.NewPair(nil)
		pair.WritePort(0x21, 0x00) // unmask every master line so raises can assert INTR
		for line := 0; line < 8; line++ {
			pair.Master.SetLevelTriggered(line, true)
		}
		raised := make(map[int]bool)

		for step := 0; step < 200; step++ {
			irq := r.Intn(8)
			switch r.Intn(3) {
			case 0:
				pair.Master.Raise(source, irq)
				raised[irq] = true
			case 1:
				pair.Master.Lower(source, irq)
				raised[irq] = false
			case 2:
				if pair.HasINTR() {
					vector := pair.INTA()
					_ = vector
					pair.WritePort(0x20, 0x20) // non-specific EOI
				}
			}
		}

		anyRaised := false
		for _, v := range raised {
			if v {
				anyRaised = true
				break
			}
		}
		if !anyRaised && pair.HasINTR() {
			return fmt.Errorf("iteration %d: HasINTR reported true with no source line raised", i)
		}
	}
	fmt.Printf("pic: %d iterations, no spurious HasINTR with no line raised\n", iterations)
	return nil
}
