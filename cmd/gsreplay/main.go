// main.go - interactive trace-stepping monitor for the translator (SPEC_FULL.md §4.11)
//
// Grounded on terminal_host.go's TerminalHost (raw stdin via
// golang.org/x/term, a line-buffered read loop) and debug_commands.go's
// MachineMonitor.ExecuteCommand (a single-letter command switch driving
// step/go/dump/breakpoint operations). Generalized here to step a
// recorded GIF/register trace one event (or one VSync) at a time
// against a headless Translator instead of a CPU.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	gs "github.com/intuitionamiga/gsxlate"
	"github.com/intuitionamiga/gsxlate/backend/software"
	"github.com/intuitionamiga/gsxlate/internal/trace"
)

// rawLineReader reads one line at a time from a terminal put in raw
// mode, doing its own echo and editing since raw mode disables the
// OS's canonical line discipline. Grounded on terminal_host.go's
// byte-at-a-time stdin read loop: Enter arrives as CR (translated to
// LF) and Backspace as DEL (translated to BS).
type rawLineReader struct {
	fd       int
	oldState *term.State
}

func newRawLineReader(fd int) (*rawLineReader, error) {
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	return &rawLineReader{fd: fd, oldState: oldState}, nil
}

func (r *rawLineReader) restore() {
	_ = term.Restore(r.fd, r.oldState)
}

func (r *rawLineReader) readLine() (string, error) {
	var line []byte
	buf := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil {
			return "", err
		}
		if n == 0 {
			continue
		}
		b := buf[0]
		if b == '\r' {
			b = '\n'
		}
		if b == 0x7F {
			b = 0x08
		}
		switch b {
		case '\n':
			fmt.Print("\r\n")
			return string(line), nil
		case 0x08:
			if len(line) > 0 {
				line = line[:len(line)-1]
				fmt.Print("\b \b")
			}
		case 0x03: // Ctrl-C
			return "", io.EOF
		default:
			line = append(line, b)
			fmt.Print(string(b))
		}
	}
}

// replayMonitor holds everything one interactive session needs: the
// translator under test, its trace source and running step/vsync
// counters for status reporting.
type replayMonitor struct {
	tl      *gs.Translator
	backend *software.Backend
	r       *trace.Reader

	eventNum int
	vsyncNum int
	done     bool

	breakOnFlushReason map[gs.FlushReason]bool
}

func newReplayMonitor(tl *gs.Translator, backend *software.Backend, r *trace.Reader) *replayMonitor {
	return &replayMonitor{
		tl:                 tl,
		backend:            backend,
		r:                  r,
		breakOnFlushReason: make(map[gs.FlushReason]bool),
	}
}

// stepOne consumes and applies exactly one trace event, reporting what
// it did as a one-line status string.
func (m *replayMonitor) stepOne() (string, error) {
	ev, err := m.r.Next()
	if err != nil {
		return "", err
	}
	m.eventNum++
	switch ev.Op {
	case trace.OpRegisterWrite:
		m.tl.WriteRegister(gs.RegAddr(ev.RegAddr), ev.RegValue)
		return fmt.Sprintf("#%d reg[0x%02x] <- 0x%x", m.eventNum, ev.RegAddr, ev.RegValue), nil
	case trace.OpGIFPacket:
		m.tl.GIFTransfer(ev.GIFPath, ev.GIFData)
		return fmt.Sprintf("#%d GIF path %d, %d bytes", m.eventNum, ev.GIFPath, len(ev.GIFData)), nil
	case trace.OpVSync:
		m.vsyncNum++
		_, err := m.tl.VSync(gs.VSyncInfo{DisplayBasePage: 0, DisplayPSM: gs.PSMCT32, DisplayStride: 10, Width: 640, Height: 448})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("#%d vsync %d", m.eventNum, m.vsyncNum), nil
	default:
		return fmt.Sprintf("#%d unknown op", m.eventNum), nil
	}
}

// runToNextVSync steps until a VSync event fires or the trace ends.
func (m *replayMonitor) runToNextVSync() {
	for {
		line, err := m.stepOne()
		if err != nil {
			m.done = true
			return
		}
		fmt.Println(line)
		if strings.Contains(line, "vsync") {
			return
		}
	}
}

func (m *replayMonitor) dumpPage(page int) {
	data, release, err := m.tl.MapVRAMRead([]int{page})
	if err != nil {
		fmt.Fprintf(os.Stderr, "dump: %v\n", err)
		return
	}
	defer release()
	const perLine = 32
	for i := 0; i < len(data); i += perLine {
		end := i + perLine
		if end > len(data) {
			end = len(data)
		}
		fmt.Printf("%04x: % x\n", i, data[i:end])
	}
}

func (m *replayMonitor) showStats() {
	s := m.tl.ConsumeFlushStats()
	fmt.Printf("passes=%d primitives=%d\n", s.Passes, s.Primitives)
	for reason, n := range s.ByReason {
		fmt.Printf("  %s: %d\n", reason, n)
	}
}

// executeCommand dispatches one line of monitor input, returning false
// once the session should end.
func (m *replayMonitor) executeCommand(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true
	}
	switch fields[0] {
	case "s", "step":
		out, err := m.stepOne()
		if err != nil {
			if err == io.EOF {
				fmt.Println("end of trace")
			} else {
				fmt.Fprintf(os.Stderr, "step: %v\n", err)
			}
			return true
		}
		fmt.Println(out)
	case "g", "go":
		m.runToNextVSync()
	case "d", "dump":
		if len(fields) < 2 {
			fmt.Fprintln(os.Stderr, "usage: dump <page>")
			return true
		}
		page, err := strconv.Atoi(fields[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "dump: bad page %q\n", fields[1])
			return true
		}
		m.dumpPage(page)
	case "stats":
		m.showStats()
	case "q", "quit", "exit":
		return false
	case "h", "help", "?":
		fmt.Println("commands: step|s  go|g  dump|d <page>  stats  quit|q")
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q (try help)\n", fields[0])
	}
	return true
}

func main() {
	opts := gs.OptionsFromFlags(flag.CommandLine)
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: gsreplay [flags] <trace-file>")
		os.Exit(2)
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatalf("gsreplay: %v", err)
	}
	defer f.Close()

	r, err := trace.NewReader(f)
	if err != nil {
		log.Fatalf("gsreplay: %v", err)
	}

	tl := gs.NewTranslator(*opts)
	backend := software.New(tl.VRAM())
	tl.AttachBackend(backend)

	mon := newReplayMonitor(tl, backend, r)

	fmt.Println("gsreplay monitor - type help for commands")

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		// Input is piped (e.g. from a script or test harness): fall
		// back to plain line reads, no raw mode needed.
		runPipedLoop(mon)
		return
	}

	rr, err := newRawLineReader(int(os.Stdin.Fd()))
	if err != nil {
		log.Fatalf("gsreplay: %v", err)
	}
	defer rr.restore()

	for !mon.done {
		fmt.Print("> ")
		line, err := rr.readLine()
		if err != nil {
			break
		}
		if !mon.executeCommand(line) {
			break
		}
	}
}

func runPipedLoop(mon *replayMonitor) {
	scanner := bufio.NewScanner(os.Stdin)
	for !mon.done {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		if !mon.executeCommand(scanner.Text()) {
			break
		}
	}
}
