package bootstrap

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"convocast-go/internal/domain/tts"
	"convocast-go/internal/platform/errors"
)

// audioTools are the external binaries the transcode, combine and
// validation stages shell out to. None of them is strictly required,
// every stage has a pure-Go fallback, but quality degrades without them.
var audioTools = []string{"ffmpeg", "ffprobe", "lame"}

// runDoctor probes the host: which synthesis engines can run, which audio
// tools are installed, and whether disk and memory look sane. It exits
// with an error only when no engine at all is available, because then the
// generate and serve verbs cannot produce any audio.
func runDoctor(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("doctor", flag.ContinueOnError)
	if err := flags.Parse(args); err != nil {
		return flagError("doctor", err)
	}

	state, err := loadCore(ctx)
	if err != nil {
		return err
	}
	defer state.Close()
	cfg := state.config

	fmt.Println("convocast doctor")

	fmt.Println("\nsynthesis engines:")
	engines := tts.Engines()
	ready := 0
	for _, name := range engines {
		provider, err := tts.Create(name, cfg, state.logger)
		if err != nil {
			printCheck(name, err)
			continue
		}
		availErr := provider.Available()
		if availErr == nil {
			ready++
		}
		printCheck(name, availErr)
	}

	fmt.Println("\naudio tools:")
	for _, bin := range audioTools {
		_, err := exec.LookPath(bin)
		printCheck(bin, err)
	}

	fmt.Println("\nhost:")
	reportDisk(cfg.TTS.OutputDir)
	reportMemory()

	fmt.Printf("\n%d of %d engines ready\n", ready, len(engines))
	if ready == 0 {
		return errors.New(errors.KindUnavailable, "doctor",
			"no synthesis engine is available on this host")
	}
	return nil
}

func printCheck(name string, err error) {
	if err != nil {
		fmt.Printf("  [missing] %-8s %v\n", name, err)
		return
	}
	fmt.Printf("  [ok]      %s\n", name)
}

func reportDisk(dir string) {
	if dir == "" {
		dir = "."
	}
	// The output directory may not exist before the first run; measure
	// the working directory's filesystem instead.
	if _, err := os.Stat(dir); err != nil {
		dir = "."
	}
	usage, err := disk.Usage(dir)
	if err != nil {
		fmt.Printf("  disk    unavailable: %v\n", err)
		return
	}
	fmt.Printf("  disk    %.1f GiB free of %.1f GiB at %s\n",
		gib(usage.Free), gib(usage.Total), dir)
}

func reportMemory() {
	vm, err := mem.VirtualMemory()
	if err != nil {
		fmt.Printf("  memory  unavailable: %v\n", err)
		return
	}
	fmt.Printf("  memory  %.1f GiB available of %.1f GiB\n",
		gib(vm.Available), gib(vm.Total))
}

func gib(bytes uint64) float64 {
	return float64(bytes) / (1 << 30)
}
