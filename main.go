package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Abhishekt2307/OrderBookManager/config"
	"github.com/Abhishekt2307/OrderBookManager/domain"
	"github.com/Abhishekt2307/OrderBookManager/helpers"
	promclient "github.com/Abhishekt2307/OrderBookManager/infrastructure/prometheus"
	"github.com/Abhishekt2307/OrderBookManager/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %s", err)
	}
	strategy, err := cfg.SideStrategy()
	if err != nil {
		log.Fatal(err)
	}

	recorder := promclient.NewRecorder()
	go promclient.StartPromClientServer(cfg.Metrics.Addr, recorder)

	store, err := domain.NewOrderBookStore(cfg.App.Instruments,
		domain.WithSideStrategy(strategy),
		domain.WithInstrumentation(recorder),
	)
	if err != nil {
		log.Fatalf("failed to create order book store: %s", err)
	}

	maintainer := domain.NewOrderbookMaintainer(store,
		domain.WithUsageInterval(cfg.Book.UsageInterval),
	)
	depthQuery := usecase.NewDepthQueryUseCase(store, cfg.Book.DefaultDepth, cfg.Book.MaxDepth)

	log.Printf("maintaining %d books with the %s strategy", len(cfg.App.Instruments), strategy)

	// Demo feed: replays synthetic snapshots and deltas through the
	// maintainer the way a real feed handler would.
	feed := newSyntheticFeed(cfg.App.Instruments)
	done := make(chan struct{})
	go runFeed(feed, maintainer, done)
	go watchBooks(depthQuery, cfg, done)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	close(done)
	maintainer.Stop()
	log.Println("shut down")
}

func runFeed(feed *syntheticFeed, maintainer *domain.OrderbookMaintainer, done chan struct{}) {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			for _, event := range feed.nextRound() {
				if err := maintainer.Enqueue(event); err != nil {
					log.Printf("failed to enqueue %s for %s: %s", event.Kind, event.InstrumentID, err)
				}
			}
		}
	}
}

func watchBooks(depthQuery *usecase.DepthQueryUseCase, cfg *config.Config, done chan struct{}) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			for _, instrumentID := range cfg.App.Instruments {
				snapshot, err := depthQuery.GetDepth(instrumentID, 5)
				if err != nil {
					log.Printf("depth query failed for %s: %s", instrumentID, err)
					continue
				}
				log.Printf("book %s", helpers.ToJsonString(snapshot))

				// only the first instrument unless debugging
				if !cfg.App.Debug {
					break
				}
			}
		}
	}
}
