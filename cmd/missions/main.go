package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	missionscmd "github.com/louisbranch/missionkit/internal/cmd/missions"
	"github.com/louisbranch/missionkit/internal/platform/config"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("load env: %v", err)
	}
	log.SetPrefix("[MISSIONS] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := missionscmd.NewRootCommand()
	if err := missionscmd.Execute(ctx, root, os.Args[1:]); err != nil {
		locale, _ := root.PersistentFlags().GetString("locale")
		log.Fatal(missionscmd.Describe(err, locale))
	}
}
