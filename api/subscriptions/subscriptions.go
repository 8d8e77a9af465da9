// Copyright (c) 2026 The Helix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	apistaking "github.com/helixstake/helix/api/staking"
	"github.com/helixstake/helix/api/utils"
	"github.com/helixstake/helix/helix"
	"github.com/helixstake/helix/log"
	"github.com/helixstake/helix/staking"
)

const (
	pingPeriod = 10 * time.Second
	pongWait   = 2 * pingPeriod
	writeWait  = 10 * time.Second
)

var logger = log.WithContext("pkg", "subscriptions")

// Subscriptions streams committed operation events over websocket.
type Subscriptions struct {
	broadcaster *Broadcaster
	done        chan struct{}
	upgrader    *websocket.Upgrader
}

func New(broadcaster *Broadcaster) *Subscriptions {
	return &Subscriptions{
		broadcaster: broadcaster,
		done:        make(chan struct{}),
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},
	}
}

// handleEvents upgrades the connection and pushes every committed event,
// optionally filtered to one user via ?user=.
func (s *Subscriptions) handleEvents(w http.ResponseWriter, req *http.Request) error {
	var filter *helix.Address
	if v := req.URL.Query().Get("user"); v != "" {
		addr, err := helix.ParseAddress(v)
		if err != nil {
			return utils.BadRequest(errors.WithMessage(err, "user"))
		}
		filter = addr
	}

	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		// the upgrader has already responded
		logger.Debug("upgrade failed", "err", err)
		return nil
	}
	defer conn.Close()

	events, unsubscribe := s.broadcaster.Subscribe()
	defer unsubscribe()

	closed := make(chan struct{})
	// the read pump only serves close detection and pong bookkeeping
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	pinger := time.NewTicker(pingPeriod)
	defer pinger.Stop()

	for {
		select {
		case batch, ok := <-events:
			if !ok {
				return nil
			}
			for _, ev := range batch {
				if filter != nil && ev.User != *filter {
					continue
				}
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteJSON(apistaking.ConvertEvent(ev)); err != nil {
					logger.Debug("subscriber write failed", "err", err)
					return nil
				}
			}
		case <-pinger.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return nil
			}
		case <-closed:
			return nil
		case <-s.done:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
			return nil
		}
	}
}

// Close signals all connected subscribers to disconnect.
func (s *Subscriptions) Close() {
	close(s.done)
}

// Mount registers the subscription routes on the router.
func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.Path("/events").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(s.handleEvents))
}

var _ staking.EventSink = (*Broadcaster)(nil)
