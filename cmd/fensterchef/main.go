// Command fensterchef starts the window manager.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/DevByProxy/fensterchef/internal/wm"
)

var version = "unknown" // set by the release build

func main() {
	var (
		configPath  = flag.String("config", defaultConfigPath(), "path to the configuration file")
		showVersion = flag.Bool("version", false, "print the version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println("fensterchef", version)
		return
	}

	ctx, err := wm.New(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	defer ctx.Close()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		ctx.Quit()
	}()

	if err := ctx.Run(); err != nil {
		log.Fatal(err)
	}
}

func defaultConfigPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "fensterchef", "fensterchef.toml")
	}
	return "fensterchef.toml"
}
