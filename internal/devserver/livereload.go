package devserver

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const reloadWriteTimeout = 2 * time.Second

// reloadHub tracks connected preview tabs and tells them to reload after a
// rebuild.
type reloadHub struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func newReloadHub(logger *slog.Logger) *reloadHub {
	return &reloadHub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  512,
			WriteBufferSize: 512,
			// Preview server is loopback-only; any page it serves may connect.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		conns: map[*websocket.Conn]struct{}{},
	}
}

func (h *reloadHub) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("livereload upgrade failed", "error", err)
		return
	}

	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()

	// Drain client frames until the tab goes away.
	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *reloadHub) broadcastReload() {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for conn := range h.conns {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		_ = conn.SetWriteDeadline(time.Now().Add(reloadWriteTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, []byte("reload")); err != nil {
			h.drop(conn)
		}
	}
}

func (h *reloadHub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	_, tracked := h.conns[conn]
	delete(h.conns, conn)
	h.mu.Unlock()
	if tracked {
		_ = conn.Close()
	}
}

func (h *reloadHub) closeAll() {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for conn := range h.conns {
		conns = append(conns, conn)
	}
	h.conns = map[*websocket.Conn]struct{}{}
	h.mu.Unlock()

	for _, conn := range conns {
		_ = conn.Close()
	}
}

const livereloadScript = `(function () {
  'use strict';
  var retry = 1000;
  function connect() {
    var proto = location.protocol === 'https:' ? 'wss://' : 'ws://';
    var ws = new WebSocket(proto + location.host + '` + livereloadPath + `');
    ws.onmessage = function (ev) {
      if (ev.data === 'reload') location.reload();
    };
    ws.onclose = function () {
      setTimeout(connect, retry);
      retry = Math.min(retry * 2, 10000);
    };
    ws.onopen = function () { retry = 1000; };
  }
  connect();
})();
`

func serveLivereloadScript(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if r.Method != http.MethodHead {
		_, _ = w.Write([]byte(livereloadScript))
	}
}
