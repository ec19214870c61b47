package viewer

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

// Follow mirrors selection changes from a running dashboard. It reconnects
// with exponential backoff and never gives up; the viewer stays usable on its
// last view while disconnected.
func (e *Engine) Follow(url string) {
	backoff := 1 * time.Second
	for {
		log.Printf("[VIEWER] Connecting to dashboard: %s", url)
		c, _, err := websocket.DefaultDialer.Dial(url, nil)
		if err != nil {
			log.Printf("[VIEWER] Dial error: %v. Retrying in %v...", err, backoff)
			time.Sleep(backoff)
			backoff *= 2
			if backoff > 60*time.Second {
				backoff = 60 * time.Second
			}
			continue
		}
		backoff = 1 * time.Second

		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Printf("[VIEWER] Read error: %v. Reconnecting...", err)
				break
			}
			var view struct {
				Selection struct {
					Year        int    `json:"year"`
					Destination string `json:"destination"`
				} `json:"selection"`
			}
			if json.Unmarshal(message, &view) != nil {
				continue
			}
			e.SetSelection(view.Selection.Year, view.Selection.Destination)
		}
		c.Close()
		time.Sleep(time.Second)
	}
}
