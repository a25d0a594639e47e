package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/claude/repcoach/internal/exercise"
	"github.com/claude/repcoach/internal/replay"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	exerciseName := flag.String("exercise", "", "exercise to evaluate the recording against (required)")
	exerciseFile := flag.String("exercises", "", "optional YAML file with extra exercise definitions")
	force := flag.Bool("force", false, "replay even if the recording was processed before")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("repcoach-replay", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *exerciseName == "" || flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "Usage: repcoach-replay -exercise <name> [-exercises file.yaml] [-force] <recording.jsonl>...\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	registry := exercise.Builtin()
	if *exerciseFile != "" {
		var err error
		registry, err = exercise.LoadFile(*exerciseFile)
		if err != nil {
			log.Error("failed to load exercise file", "path", *exerciseFile, "error", err)
			os.Exit(1)
		}
	}

	def := registry.Get(*exerciseName)
	if def == nil {
		log.Error("unknown exercise", "name", *exerciseName, "available", registry.Names())
		os.Exit(1)
	}

	// Open state database
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Error("failed to get home directory", "error", err)
		os.Exit(1)
	}
	state, err := replay.OpenStateDB(filepath.Join(homeDir, ".repcoach-replay"))
	if err != nil {
		log.Error("failed to open state database", "error", err)
		os.Exit(1)
	}
	defer state.Close()

	failed := 0
	for _, path := range flag.Args() {
		if err := replayOne(log, state, def, path, *force); err != nil {
			log.Error("replay failed", "path", path, "error", err)
			failed++
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func replayOne(log *slog.Logger, state *replay.StateDB, def *exercise.Definition, path string, force bool) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	hash, err := replay.HashFile(path)
	if err != nil {
		return err
	}

	if !force {
		done, err := state.IsProcessed(path, info.Size(), hash)
		if err != nil {
			return err
		}
		if done {
			log.Info("already processed, skipping", "path", path)
			return nil
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	res, err := replay.Run(def, f)
	if err != nil {
		return err
	}

	log.Info("recording replayed",
		"path", path,
		"exercise", def.Name,
		"frames", res.Frames,
		"duration", res.Duration.String(),
		"good_reps", res.GoodReps,
		"bad_reps", res.BadReps,
	)
	for _, rep := range res.Reps {
		log.Info("rep", "at", rep.At.String(), "good", rep.Good, "feedback", rep.Feedback)
	}

	return state.MarkProcessed(path, info.Size(), hash, res)
}
