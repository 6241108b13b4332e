package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	. "parrot/common"

	"parrot/chat"
	"parrot/config"
	"parrot/emoji"
	"parrot/ipc"
	"parrot/network"
	"parrot/storage"
)

var mainCtx *ParrotContext
var mainLog = NewLogger("main")

func init() {
	sigchan := make(chan os.Signal, 1)
	signal.Notify(sigchan, syscall.SIGINT, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())

	mainCtx = &ParrotContext{
		Context: ctx,
		Cancel:  cancel,
	}

	go func() {
		<-sigchan
		mainLog.Println("Shutting down...")
		signal.Stop(sigchan)
		cancel()
	}()
}

func main() {
	configPath := flag.String("config", "config.json", "path to the configuration file")
	command := flag.String("command", "", "send a control command to a running bot and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		mainLog.Fatalln("Failed to load configuration:", err)
	}

	if *command != "" {
		reply, err := ipc.SendCommand(cfg.IPC.Addr, *command)
		if err != nil {
			mainLog.Fatalln(err)
		}
		fmt.Println(reply)
		return
	}

	if err := SetupLogging(cfg.Log.Level); err != nil {
		mainLog.Fatalln("Failed to set up logging:", err)
	}

	DataFolder = cfg.Data.Dir
	storage.ProfilesFolder = cfg.Data.ProfilesDir

	if err := os.MkdirAll(DataFolder, 0755); err != nil {
		mainLog.Fatalln("Failed to create data folder:", err)
	}
	if err := os.MkdirAll(storage.ProfilesFolder, 0755); err != nil {
		mainLog.Fatalln("Failed to create profiles folder:", err)
	}

	index, err := emoji.NewIndex(cfg.Assets.Dir)
	if err != nil {
		mainLog.Fatalln("Failed to build emoji catalog:", err)
	}
	mainLog.Printf("Catalog holds %d emoji from %s", index.Catalog().Len(), cfg.Assets.Dir)

	waits := []*sync.WaitGroup{
		storage.StartDatabase(mainCtx),
		network.StartServer(mainCtx, cfg, index),
		ipc.StartIPC(mainCtx, cfg, index),
		chat.StartGateway(mainCtx, cfg, index),
	}

	if cfg.Assets.Watch {
		waits = append(waits, emoji.StartWatcher(mainCtx, index))
	}

	<-mainCtx.Done()
	for _, wait := range waits {
		wait.Wait()
	}
	mainLog.Println("Exiting")
}
