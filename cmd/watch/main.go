package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/Tina-Mai/storm/internal/client"
	"github.com/Tina-Mai/storm/internal/logger"
	"github.com/Tina-Mai/storm/internal/model"
	redisrepo "github.com/Tina-Mai/storm/internal/repository/redis"
	"github.com/Tina-Mai/storm/pkg/bandit"
)

func main() {
	url := flag.String("url", "http://localhost:8009", "server base URL")
	regions := flag.Int("regions", 3, "number of regions for the new run")
	budget := flag.Int("budget", 300, "resource units for the new run")
	follow := flag.Bool("follow", false, "follow the current run instead of starting a new one")
	redisURL := flag.String("redis", "", "follow snapshots over Redis pub/sub instead of the server")
	fps := flag.Float64("fps", 10, "maximum redraws per second")
	timeout := flag.Duration("timeout", time.Minute, "give up after this long without an event")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	logger.InitCLI(*debug)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info().Msg("Received shutdown signal")
		cancel()
	}()

	draw := newDrawer(*fps)

	if *redisURL != "" {
		if err := watchRedis(ctx, *redisURL, draw); err != nil {
			log.Fatal().Err(err).Msg("Redis watch failed")
		}
		return
	}

	c := client.New(*url)
	w := client.NewWatcher(c, *regions, *budget, *timeout, draw)

	var (
		res *bandit.Results
		err error
	)
	if *follow {
		if err = c.ConnectWS(ctx); err == nil {
			defer c.CloseWS()
			res, err = w.Follow(ctx, "")
		}
	} else {
		res, err = w.Run(ctx)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Watch failed")
	}
	log.Info().
		Int("thompson", res.ThompsonSamplingSuccesses).
		Int("uniform", res.UniformAllocationSuccesses).
		Msg("Run completed")
}

// newDrawer redraws the terminal at most fps times per second. Lifecycle
// events are always drawn.
func newDrawer(fps float64) func(string, bandit.Snapshot) {
	limiter := rate.NewLimiter(rate.Limit(fps), 1)
	return func(eventType string, snap bandit.Snapshot) {
		if eventType == model.EventStepCompleted && !limiter.Allow() {
			return
		}
		fmt.Print("\033[H\033[2J")
		fmt.Println(client.Render(snap))
	}
}

// watchRedis renders every snapshot the server publishes until ctx ends or
// a run is exhausted.
func watchRedis(ctx context.Context, url string, draw func(string, bandit.Snapshot)) error {
	rc, err := redisrepo.NewClient(url, time.Hour)
	if err != nil {
		return err
	}
	defer rc.Close()

	if snap, err := rc.GetSnapshot(ctx); err == nil && snap != nil {
		draw(model.EventConnected, *snap)
	}

	subCtx, stop := context.WithCancel(ctx)
	defer stop()
	return rc.Subscribe(subCtx, func(snap bandit.Snapshot) {
		eventType := model.EventStepCompleted
		if snap.Exhausted() {
			eventType = model.EventRunExhausted
		}
		draw(eventType, snap)
		if snap.Exhausted() {
			stop()
		}
	})
}
