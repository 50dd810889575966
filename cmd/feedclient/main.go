package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"fantamatto_bot/internal/model"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

func main() {
	url := flag.String("url", "ws://localhost:8888/api/v1/feed/ws", "feed websocket url")
	initData := flag.String("init-data", os.Getenv("FEED_INIT_DATA"), "Telegram Mini App init data used for authorization")
	flag.Parse()

	header := http.Header{}
	header.Add("Authorization", "Telegram "+*initData)

	conn, _, err := websocket.DefaultDialer.Dial(*url, header)
	if err != nil {
		log.Fatal("dial:", err)
	}
	defer conn.Close()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, syscall.SIGINT, syscall.SIGTERM)

	events := make(chan model.FeedEvent)

	go func() {
		defer close(events)
		for {
			_, p, err := conn.ReadMessage()
			if err != nil {
				log.Println("read error:", err)
				return
			}

			var event model.FeedEvent
			if err := json.Unmarshal(p, &event); err != nil {
				log.Println("decode error:", err)
				continue
			}
			events <- event
		}
	}()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			log.Printf("%s: %s -> %s (+%d, total %d)\n",
				event.CreatedAt.Local().Format("15:04:05"),
				event.Reporter,
				event.MattoName,
				event.Points,
				event.TotalPoints,
			)

		case <-interrupt:
			err := conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			if err != nil {
				log.Println("close error:", err)
			}
			return
		}
	}
}
